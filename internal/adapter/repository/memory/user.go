package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	domain "user-management-service/internal/domain/user"
	"user-management-service/internal/usecase/user"
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository keeps users in process memory, keyed by ID.
// It stores copies, so callers never share a value with the store.
// ListAll and Search return users in insertion order.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
	order []string
}

// NewUserRepository creates an empty in-memory repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

// Save inserts the user or overwrites the one with the same ID.
func (r *UserRepository) Save(_ context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		r.order = append(r.order, u.ID)
	}
	r.users[u.ID] = *u
	return nil
}

// FindByID returns a copy of the user, or nil if absent.
func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// FindByEmail returns the first user whose email matches exactly, or nil.
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if u := r.users[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// ListAll returns every user.
func (r *UserRepository) ListAll(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.users[id])
	}
	return users, nil
}

// Search returns users whose name or email contains term, ignoring case.
func (r *UserRepository) Search(_ context.Context, term string) ([]domain.User, error) {
	needle := strings.ToLower(term)

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0)
	for _, id := range r.order {
		u := r.users[id]
		if strings.Contains(strings.ToLower(u.Name), needle) || strings.Contains(strings.ToLower(u.Email), needle) {
			users = append(users, u)
		}
	}
	return users, nil
}

// Delete removes the user and reports whether it existed.
func (r *UserRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Exists reports whether any user has the given email.
func (r *UserRepository) Exists(ctx context.Context, email string) (bool, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// Len returns the number of stored users.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
