package middleware

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/userkeeper-server/internal/logger"
)

// Recovery turns a panicking handler into a 500 response.
func Recovery(logger *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error("HTTP handler panicked",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", recovered,
			"request_id", RequestIDFromContext(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
	})
}
