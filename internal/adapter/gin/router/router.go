package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-management-service/internal/adapter/gin/handler"
	"user-management-service/internal/adapter/gin/middleware"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker func(ctx context.Context) error

// Options configures the router.
type Options struct {
	ServiceName string
	RateLimiter *middleware.RateLimiter
	// Checks are run by /health; any failure answers 503.
	Checks map[string]HealthChecker
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(userHandler *handler.UserHandler, opts Options, log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	router.GET("/health", health(opts))

	v1 := router.Group("/v1")
	v1.Use(opts.RateLimiter.Handler())
	{
		users := v1.Group("/users")
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	return router
}

func health(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		checks := make(map[string]string, len(opts.Checks))
		for name, check := range opts.Checks {
			if err := check(c.Request.Context()); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":  state,
			"service": opts.ServiceName,
			"checks":  checks,
		})
	}
}
