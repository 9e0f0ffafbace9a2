package handler

import (
	"github.com/gin-gonic/gin"
)

// notRequiredAuthMiddleware identifies the caller when a valid token is sent
// and lets the request through anonymously otherwise.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	accessToken, ok := bearerToken(c)
	if !ok {
		c.Next()
		return
	}

	user, err := h.getUserDataFromAccessTokenClaims(c.Request.Context(), accessToken)
	if err != nil {
		c.Next()
		return
	}

	c.Set(cachedUserKey, *user)

	c.Next()
}
