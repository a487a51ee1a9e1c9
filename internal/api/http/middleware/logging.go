package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/userkeeper-server/internal/logger"
)

// Logging logs HTTP requests and their results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleHTTP logs method, path, duration and status for each request.
func (l *Logging) HandleHTTP(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path

	l.logger.Debug("HTTP request started",
		"method", c.Request.Method,
		"path", path,
		"request_id", RequestIDFromContext(c))

	c.Next()

	status := c.Writer.Status()
	args := []any{
		"method", c.Request.Method,
		"path", path,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", RequestIDFromContext(c),
	}

	if status >= 500 {
		l.logger.Error("HTTP request failed", args...)
		return
	}
	l.logger.Info("HTTP request completed", args...)
}
