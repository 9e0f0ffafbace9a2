package handler

import (
	"net/http"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-gonic/gin"
)

func parseVisibility(raw *string) (*model.Visibility, bool) {
	if raw == nil {
		return nil, true
	}
	v, ok := model.ParseVisibility(*raw)
	if !ok {
		return nil, false
	}
	return &v, true
}

func (h *Handler) feedsCreate(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.CreateFeedRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.abortWithBindingError(c, err)
		return
	}
	visibility, ok := parseVisibility(input.Visibility)
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	feed, err := h.services.Feed.Create(c.Request.Context(), user.ID, input.ResultID, input.Caption, visibility)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, feed)
}

func (h *Handler) feedsGetByID(c *gin.Context) {
	feedID, ok := int64Param(c, "feedID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	feed, err := h.services.Feed.GetDetail(c.Request.Context(), feedID, h.viewerID(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *Handler) feedsUpdate(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	feedID, ok := int64Param(c, "feedID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	var input dto.UpdateFeedRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.abortWithBindingError(c, err)
		return
	}
	visibility, ok := parseVisibility(input.Visibility)
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	feed, err := h.services.Feed.Update(c.Request.Context(), feedID, user.ID, model.FeedUpdate{
		Caption:    input.Caption,
		Visibility: visibility,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *Handler) feedsDelete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	feedID, ok := int64Param(c, "feedID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	if err := h.services.Feed.Delete(c.Request.Context(), feedID, user.ID); err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "feed deleted"))
}

func (h *Handler) feedsTimeline(c *gin.Context) {
	var query dto.CursorPageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.abortWithBindingError(c, err)
		return
	}

	page, err := h.services.Feed.GetTimeline(c.Request.Context(), h.viewerID(c), query.Request())
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) feedsGetByUser(c *gin.Context) {
	ownerID, ok := uuidParam(c, "userID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	var query dto.CursorPageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.abortWithBindingError(c, err)
		return
	}

	page, err := h.services.Feed.GetUserFeeds(c.Request.Context(), ownerID, h.viewerID(c), query.Request())
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) feedsToggleReaction(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	feedID, ok := int64Param(c, "feedID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	var query dto.ToggleReactionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.abortWithBindingError(c, err)
		return
	}
	reactionType, ok := model.ParseReactionType(query.ReactionType)
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	resp, err := h.services.Feed.ToggleReaction(c.Request.Context(), feedID, user.ID, reactionType)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
