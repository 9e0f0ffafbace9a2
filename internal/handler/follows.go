package handler

import (
	"net/http"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/BloggingApp/feed-service/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) followsToggle(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	targetID, ok := uuidParam(c, "userID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	resp, err := h.services.Follow.Toggle(c.Request.Context(), user.ID, targetID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) followsStatus(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	targetID, ok := uuidParam(c, "userID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	status, err := h.services.Follow.Status(c.Request.Context(), user.ID, targetID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

type listFollowsFunc func(c *gin.Context, targetID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FollowUserResponse], error)

func (h *Handler) followsList(c *gin.Context, list listFollowsFunc) {
	targetID, ok := uuidParam(c, "userID")
	if !ok {
		h.abortWithError(c, service.ErrInvalidParameter)
		return
	}

	var query dto.CursorPageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.abortWithBindingError(c, err)
		return
	}

	page, err := list(c, targetID, h.viewerID(c), query.Request())
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) followsFollowers(c *gin.Context) {
	h.followsList(c, func(c *gin.Context, targetID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FollowUserResponse], error) {
		return h.services.Follow.Followers(c.Request.Context(), targetID, viewerID, req)
	})
}

func (h *Handler) followsFollowings(c *gin.Context) {
	h.followsList(c, func(c *gin.Context, targetID uuid.UUID, viewerID uuid.UUID, req pagination.Request) (*pagination.Page[dto.FollowUserResponse], error) {
		return h.services.Follow.Followings(c.Request.Context(), targetID, viewerID, req)
	})
}
