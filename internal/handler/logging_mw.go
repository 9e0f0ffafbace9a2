package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const slowRequestThreshold = 2 * time.Second

func (h *Handler) loggingMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	latency := time.Since(start)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", latency),
	}

	if latency > slowRequestThreshold {
		h.logger.Warn("slow request", fields...)
		return
	}
	h.logger.Info("request", fields...)
}

func (h *Handler) metricsMiddleware(c *gin.Context) {
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	h.metrics.HTTPResponses.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
}
