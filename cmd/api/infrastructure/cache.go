package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"user-management-service/internal/config"
	redisclient "user-management-service/pkg/redis"
)

// NewRedisClient connects to the redis server shared by the cache and the rate limiter.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	rdb, err := redisclient.NewClient(ctx, redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// NeedsRedis reports whether any enabled feature uses redis.
func NeedsRedis(cfg *config.Config) bool {
	return cfg.Cache.Enabled || cfg.RateLimit.Enabled
}
