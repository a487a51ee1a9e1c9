package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/userkeeper-server/internal/api/http/handler"
	"github.com/dtroode/userkeeper-server/internal/api/http/middleware"
	"github.com/dtroode/userkeeper-server/internal/logger"
)

// Router represents an HTTP router for user operations.
// It manages route registration and middleware configuration.
type Router struct {
	userService handler.UserService
	logger      *logger.Logger
}

// New creates new HTTP Router instance.
//
// Parameters:
//   - userService: The user collection the handlers operate on
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(userService handler.UserService, logger *logger.Logger) *Router {
	return &Router{
		userService: userService,
		logger:      logger,
	}
}

// Register builds the gin engine with request id, logging and recovery
// middleware and all user routes.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)

	e := gin.New()
	e.HandleMethodNotAllowed = true
	e.Use(middleware.RequestID, logging.HandleHTTP, middleware.Recovery(r.logger))
	e.NoRoute(handler.NoRoute)
	e.NoMethod(handler.NoMethod)

	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	r.registerUserRoutes(e)

	return e
}

func (r *Router) registerUserRoutes(e *gin.Engine) {
	userHandler := handler.NewUser(r.userService, r.logger)

	users := e.Group("/users")
	users.POST("/", userHandler.Create)
	users.GET("/", userHandler.List)
	users.GET("/:user_id", userHandler.Get)
	users.PUT("/:user_id", userHandler.Update)
	users.DELETE("/:user_id", userHandler.Delete)
}
