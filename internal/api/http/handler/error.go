package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/userkeeper-server/internal/model"
)

// Detail is the error body returned for non-validation failures.
type Detail struct {
	Detail string `json:"detail"`
}

const (
	msgUserNotFound     = "User not found"
	msgInternalError    = "Internal Server Error"
	msgNotFound         = "Not Found"
	msgMethodNotAllowed = "Method Not Allowed"
)

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, Detail{Detail: msgUserNotFound})
	default:
		c.JSON(http.StatusInternalServerError, Detail{Detail: msgInternalError})
	}
}

// NoRoute answers requests for unknown paths.
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, Detail{Detail: msgNotFound})
}

// NoMethod answers requests with a method the path does not support.
func NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, Detail{Detail: msgMethodNotAllowed})
}
