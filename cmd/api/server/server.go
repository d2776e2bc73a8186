package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-management-service/cmd/api/di"
	ginrouter "user-management-service/internal/adapter/gin/router"
	"user-management-service/internal/config"
)

// Server owns the HTTP listener for the REST API.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New builds the gin router from the container and wraps it in an http.Server.
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := make(map[string]ginrouter.HealthChecker)
	for name, check := range c.HealthChecks() {
		checks[name] = check
	}

	router := ginrouter.SetupRouter(c.GinHandler, ginrouter.Options{
		ServiceName: cfg.Logger.ServiceName,
		RateLimiter: c.RateLimiter,
		Checks:      checks,
	}, l)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              net.JoinHostPort("", cfg.App.HTTPPort),
			Handler:           router,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start serves until the server is shut down. A graceful shutdown is not an error.
func (s *Server) Start() error {
	s.Logger.Info("REST API running", zap.String("address", s.HTTP.Addr))
	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", s.HTTP.Addr, err)
	}
	return nil
}
