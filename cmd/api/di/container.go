package di

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-management-service/cmd/api/infrastructure"
	"user-management-service/internal/adapter/cache"
	"user-management-service/internal/adapter/db/sqlstore"
	ginhandler "user-management-service/internal/adapter/gin/handler"
	"user-management-service/internal/adapter/gin/middleware"
	"user-management-service/internal/adapter/repository/cached"
	"user-management-service/internal/adapter/repository/memory"
	"user-management-service/internal/config"
	"user-management-service/internal/usecase/user"
	redisclient "user-management-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	UserService user.Service
	RateLimiter *middleware.RateLimiter
	GinHandler  *ginhandler.UserHandler

	notifierCloser io.Closer
}

// NewContainer creates and initializes all application dependencies.
// Resources acquired before a failure are released.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (_ *Container, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	var repo user.Repository
	switch cfg.Store.Driver {
	case config.StoreMemory:
		repo = memory.NewUserRepository()
	default:
		c.DB, err = infrastructure.NewDatabase(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo = sqlstore.NewUserRepoSQL(c.DB, l)
	}

	if infrastructure.NeedsRedis(cfg) {
		c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
	}

	if cfg.Cache.Enabled {
		userCache := cache.NewRedisUserCache(c.RedisClient.Client, cfg.Cache.TTL, l)
		repo = cached.NewUserRepository(repo, userCache, l)
	}

	n, closer, err := infrastructure.NewNotifier(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}
	c.notifierCloser = closer

	c.UserService = user.New(repo, n, l.Named("user"))
	c.GinHandler = ginhandler.NewUserHandler(c.UserService, l)

	if cfg.RateLimit.Enabled {
		c.RateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				Enabled:           true,
				RequestsPerSecond: float64(cfg.RateLimit.RequestsPerSecond),
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
			},
			l,
		)
	}

	l.Info("container initialized",
		zap.String("store", cfg.Store.Driver),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.String("notifier", cfg.Notifier.Driver),
	)
	return c, nil
}

// HealthChecks returns the liveness probes of the backing services in use.
func (c *Container) HealthChecks() map[string]func(context.Context) error {
	checks := make(map[string]func(context.Context) error)
	if c.RedisClient != nil {
		checks["redis"] = c.RedisClient.Healthy
	}
	if c.DB != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	return checks
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.notifierCloser != nil {
		if err := c.notifierCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close notifier: %w", err))
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
