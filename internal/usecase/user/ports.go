package user

import (
	"context"

	"go.uber.org/zap"

	domain "user-management-service/internal/domain/user"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (in-memory, SQL, cached) to be used interchangeably.
//
// Lookups return (nil, nil) when nothing matches; a non-nil error always
// means the backing store failed.
type Repository interface {
	Save(ctx context.Context, u *domain.User) error                      // Insert or overwrite by ID
	FindByID(ctx context.Context, id string) (*domain.User, error)       // Retrieve user by ID
	FindByEmail(ctx context.Context, email string) (*domain.User, error) // Exact, case-sensitive match
	ListAll(ctx context.Context) ([]domain.User, error)                  // All users, order unspecified
	Search(ctx context.Context, term string) ([]domain.User, error)      // Case-insensitive substring of name or email
	Delete(ctx context.Context, id string) (bool, error)                 // True iff a record was removed
	Exists(ctx context.Context, email string) (bool, error)              // FindByEmail != nil
}

// Logger is the observability port. *zap.Logger satisfies it.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

// Notifier sends side-channel messages about user lifecycle events.
type Notifier interface {
	SendWelcome(ctx context.Context, u *domain.User) error
	SendUpdateNotice(ctx context.Context, u *domain.User) error
}
