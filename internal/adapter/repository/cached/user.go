package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-management-service/internal/adapter/cache"
	domain "user-management-service/internal/domain/user"
	"user-management-service/internal/usecase/user"
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository decorates a Repository with a cache-aside lookup by ID.
// Writes go to the inner repository first and then evict the cached entry,
// so a cache failure never loses a write.
//
// A lookup that misses, reads the old row, and sets it after a concurrent
// Save has evicted leaves a stale entry until the cache TTL expires.
type UserRepository struct {
	inner user.Repository
	cache cache.UserCache
	log   *zap.Logger
	group singleflight.Group
}

// NewUserRepository wraps inner with c. A nil cache disables caching.
func NewUserRepository(inner user.Repository, c cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{
		inner: inner,
		cache: c,
		log:   log,
	}
}

// Save writes through to the inner repository and evicts the cached copy.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	if err := r.inner.Save(ctx, u); err != nil {
		return err
	}
	r.evict(ctx, u.ID, "save")
	return nil
}

// FindByID serves from the cache when possible. Concurrent misses for the
// same ID share a single inner lookup, which runs detached from the
// caller's cancellation since other waiters depend on its result.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to repository", zap.String("id", id), zap.Error(err))
		} else if cachedUser != nil {
			return cachedUser, nil
		}
	}

	result, err, _ := r.group.Do(cache.Key(id), func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		u, err := r.inner.FindByID(ctx, id)
		if err != nil || u == nil {
			return u, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("id", id), zap.Error(err))
			}
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u, _ := result.(*domain.User)
	if u == nil {
		return nil, nil
	}
	// singleflight shares one pointer between waiters
	clone := *u
	return &clone, nil
}

// FindByEmail delegates to the inner repository.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.inner.FindByEmail(ctx, email)
}

// ListAll delegates to the inner repository.
func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.inner.ListAll(ctx)
}

// Search delegates to the inner repository.
func (r *UserRepository) Search(ctx context.Context, term string) ([]domain.User, error) {
	return r.inner.Search(ctx, term)
}

// Delete removes the user from the inner repository and evicts the cached copy.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.inner.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	r.evict(ctx, id, "delete")
	return deleted, nil
}

// Exists delegates to the inner repository.
func (r *UserRepository) Exists(ctx context.Context, email string) (bool, error) {
	return r.inner.Exists(ctx, email)
}

func (r *UserRepository) evict(ctx context.Context, id, op string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.String("op", op), zap.String("id", id), zap.Error(err))
	}
}
