package handler

import (
	"github.com/BloggingApp/feed-service/internal/metrics"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	cachedUserKey       = "cached-user"
	defaultClientOrigin = "http://localhost:3000"
)

type Handler struct {
	services *service.Service
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func New(services *service.Service, logger *zap.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		metrics:  m,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	origin := viper.GetString("client.origin")
	if origin == "" {
		origin = defaultClientOrigin
	}

	r.Use(gin.Recovery())
	r.Use(h.loggingMiddleware)
	r.Use(h.metricsMiddleware)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		feeds := v1.Group("/feeds")
		{
			feeds.GET("", h.notRequiredAuthMiddleware, h.feedsTimeline)
			feeds.POST("", h.authMiddleware, h.feedsCreate)

			feed := feeds.Group("/:feedID")
			{
				feed.GET("", h.notRequiredAuthMiddleware, h.feedsGetByID)
				feed.PUT("", h.authMiddleware, h.feedsUpdate)
				feed.DELETE("", h.authMiddleware, h.feedsDelete)
				feed.POST("/reactions", h.authMiddleware, h.feedsToggleReaction)

				feed.POST("/comments", h.authMiddleware, h.commentsCreate)
				feed.GET("/comments", h.notRequiredAuthMiddleware, h.commentsGet)
			}
		}

		comments := v1.Group("/comments/:commentID")
		{
			comments.PUT("", h.authMiddleware, h.commentsUpdate)
			comments.DELETE("", h.authMiddleware, h.commentsDelete)
			comments.POST("/reactions", h.authMiddleware, h.commentsToggleLike)
		}

		users := v1.Group("/users/:userID")
		{
			users.GET("/feeds", h.notRequiredAuthMiddleware, h.feedsGetByUser)
			users.POST("/follow", h.authMiddleware, h.followsToggle)
			users.GET("/follow/status", h.authMiddleware, h.followsStatus)
			users.GET("/followers", h.notRequiredAuthMiddleware, h.followsFollowers)
			users.GET("/following", h.notRequiredAuthMiddleware, h.followsFollowings)
		}
	}

	return r
}

func (h *Handler) getCachedUserFromRequest(c *gin.Context) *model.CachedUser {
	userReq, _ := c.Get(cachedUserKey)

	user, ok := userReq.(model.CachedUser)
	if !ok {
		return nil
	}

	return &user
}

// viewerID is uuid.Nil for anonymous requests.
func (h *Handler) viewerID(c *gin.Context) uuid.UUID {
	user := h.getCachedUserFromRequest(c)
	if user == nil {
		return uuid.Nil
	}
	return user.ID
}
