package handler

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/BloggingApp/feed-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	accessToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if accessToken == "" {
		return "", false
	}

	return accessToken, true
}

func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken, ok := bearerToken(c)
	if !ok {
		h.abortWithError(c, service.ErrUnauthorized)
		return
	}

	user, err := h.getUserDataFromAccessTokenClaims(c.Request.Context(), accessToken)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Set(cachedUserKey, *user)

	c.Next()
}

func (h *Handler) getUserDataFromAccessTokenClaims(ctx context.Context, accessToken string) (*model.CachedUser, error) {
	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		return nil, service.ErrUnauthorized
	}

	idString, ok := claims["id"].(string)
	if !ok {
		return nil, service.ErrUnauthorized
	}
	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, service.ErrUnauthorized
	}

	user, err := h.services.UserCache.CreateOrGet(ctx, id, accessToken)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return nil, service.ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}
