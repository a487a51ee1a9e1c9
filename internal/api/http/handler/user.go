package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/userkeeper-server/internal/logger"
	"github.com/dtroode/userkeeper-server/internal/model"
)

// UserService defines business operations for user management.
type UserService interface {
	Create(ctx context.Context, params model.UserParams) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id int) (model.User, error)
	Update(ctx context.Context, id int, params model.UserParams) (model.User, error)
	Delete(ctx context.Context, id int) error
}

// User handles HTTP endpoints for users.
type User struct {
	userService UserService
	logger      *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, logger *logger.Logger) *User {
	return &User{
		userService: userService,
		logger:      logger,
	}
}

// Create handles POST /users/.
func (h *User) Create(c *gin.Context) {
	params, ok := bindUserParams(c)
	if !ok {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("User handler: create user failed", "error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("User handler: user created", "user_id", user.ID)
	c.JSON(http.StatusCreated, user)
}

// List handles GET /users/.
func (h *User) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.logger.Error("User handler: list users failed", "error", err.Error())
		handleError(c, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:user_id.
func (h *User) Get(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.logger.Debug("User handler: get user failed", "user_id", id, "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update handles PUT /users/:user_id.
func (h *User) Update(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	params, ok := bindUserParams(c)
	if !ok {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, params)
	if err != nil {
		h.logger.Error("User handler: update user failed", "user_id", id, "error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("User handler: user updated", "user_id", id)
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:user_id.
func (h *User) Delete(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("User handler: delete user failed", "user_id", id, "error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("User handler: user deleted", "user_id", id)
	c.Status(http.StatusNoContent)
}
