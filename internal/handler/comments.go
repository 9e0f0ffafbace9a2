package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	feedID, ok := int64Param(c, "feedID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.abortWithBindingError(c, err)
		return
	}
	if strings.TrimSpace(input.Content) == "" {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), feedID, user.ID, input.Content, input.ParentCommentID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) commentsGet(c *gin.Context) {
	feedID, ok := int64Param(c, "feedID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	var query dto.CursorPageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.abortWithBindingError(c, err)
		return
	}

	page, err := h.services.Comment.List(c.Request.Context(), feedID, h.viewerID(c), query.Request())
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) commentsUpdate(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := int64Param(c, "commentID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	var input dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.abortWithBindingError(c, err)
		return
	}
	if strings.TrimSpace(input.Content) == "" {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), commentID, user.ID, input.Content)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := int64Param(c, "commentID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), commentID, user.ID); err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "comment deleted"))
}

func (h *Handler) commentsToggleLike(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := int64Param(c, "commentID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	resp, err := h.services.Comment.ToggleLike(c.Request.Context(), commentID, user.ID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
