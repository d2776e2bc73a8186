package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-management-service/internal/domain/user"
)

const keyPrefix = "user:"

// UserCache stores user snapshots keyed by ID.
type UserCache interface {
	// Get returns the cached user, or nil on a miss.
	Get(ctx context.Context, id string) (*domain.User, error)

	// Set stores a user with the configured TTL.
	Set(ctx context.Context, user *domain.User) error

	// Delete evicts the given IDs. Missing keys are not an error.
	Delete(ctx context.Context, ids ...string) error
}

// cachedUser is the JSON shape written to redis.
type cachedUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Key returns the redis key holding the user with the given ID.
func Key(id string) string {
	return keyPrefix + id
}

// Get retrieves a user from the cache.
func (c *RedisUserCache) Get(ctx context.Context, id string) (*domain.User, error) {
	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.String("user_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("cache get %s: %w", id, err)
	}

	var entry cachedUser
	if err := json.Unmarshal(data, &entry); err != nil {
		c.log.Error("failed to unmarshal cached user", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("cache decode %s: %w", id, err)
	}

	c.log.Debug("cache hit", zap.String("user_id", id))
	return &domain.User{
		ID:        entry.ID,
		Name:      entry.Name,
		Email:     entry.Email,
		CreatedAt: entry.CreatedAt,
	}, nil
}

// Set stores a user in the cache with TTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}

	data, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", user.ID, err)
	}

	if err := c.client.Set(ctx, Key(user.ID), data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("cache set %s: %w", user.ID, err)
	}

	c.log.Debug("cached user", zap.String("user_id", user.ID), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete evicts users from the cache.
func (c *RedisUserCache) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = Key(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.Strings("user_ids", ids), zap.Error(err))
		return fmt.Errorf("cache delete: %w", err)
	}

	c.log.Debug("deleted from cache", zap.Int("count", len(ids)))
	return nil
}
