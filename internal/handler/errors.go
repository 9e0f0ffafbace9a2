package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	svcErr := service.AsError(err)
	c.AbortWithStatusJSON(statusOf(svcErr.Kind), dto.NewErrorResponse(svcErr.Code, svcErr.Message))
}

// abortWithBindingError reports a request that failed input validation.
func (h *Handler) abortWithBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(service.ErrInvalidParameter.Code, err.Error()))
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
