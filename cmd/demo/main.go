// Command demo runs a scripted user-management session against the in-memory
// store with simulated email notifications.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"user-management-service/internal/adapter/notifier"
	"user-management-service/internal/adapter/repository/memory"
	"user-management-service/internal/usecase/user"
	apperrors "user-management-service/pkg/errors"
	"user-management-service/pkg/logger"
)

func main() {
	l, err := logger.New("development")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	svc := user.New(
		memory.NewUserRepository(),
		notifier.NewEmailNotifier(notifier.NewSimulated(100*time.Millisecond, false, l.Named("email")), l),
		l.Named("service"),
	)

	if err := run(context.Background(), svc, l.Named("demo")); err != nil {
		l.Fatal("demo failed", zap.Error(err))
	}
}

func run(ctx context.Context, svc user.Service, l *zap.Logger) error {
	l.Info("creating users")
	ids := make(map[string]string)
	for _, in := range []user.CreateUserRequest{
		{Name: "Juan Pérez", Email: "juan@example.com"},
		{Name: "María García", Email: "maria@example.com"},
		{Name: "Carlos López", Email: "carlos@example.com"},
	} {
		u, err := svc.CreateUser(ctx, in)
		if err != nil {
			return err
		}
		ids[u.Email] = u.ID
		l.Info("created", zap.String("id", u.ID), zap.String("name", u.Name), zap.String("email", u.Email))
	}

	if err := listAll(ctx, svc, l); err != nil {
		return err
	}

	l.Info("creating a user with an email that is already taken")
	_, err := svc.CreateUser(ctx, user.CreateUserRequest{Name: "Juan Duplicado", Email: "juan@example.com"})
	if !apperrors.IsDuplicateEmail(err) {
		return unexpected("duplicate email", err)
	}
	l.Info("rejected as expected", zap.String("reason", err.Error()))

	name, email := "María García Silva", "maria.silva@example.com"
	updated, err := svc.UpdateUser(ctx, user.UpdateUserRequest{ID: ids["maria@example.com"], Name: &name, Email: &email})
	if err != nil {
		return err
	}
	l.Info("updated", zap.String("id", updated.ID), zap.String("name", updated.Name), zap.String("email", updated.Email))

	carlos := ids["carlos@example.com"]
	if _, err := svc.DeleteUser(ctx, user.DeleteUserRequest{ID: carlos}); err != nil {
		return err
	}
	l.Info("deleted", zap.String("id", carlos))

	if err := listAll(ctx, svc, l); err != nil {
		return err
	}

	l.Info("looking up the deleted user")
	_, err = svc.GetUser(ctx, user.GetUserRequest{ID: carlos})
	if !apperrors.IsNotFound(err) {
		return unexpected("not found", err)
	}
	l.Info("not found as expected", zap.String("reason", err.Error()))

	return nil
}

func listAll(ctx context.Context, svc user.Service, l *zap.Logger) error {
	resp, err := svc.ListUsers(ctx)
	if err != nil {
		return err
	}
	l.Info("user list", zap.Int("count", resp.Count))
	for _, u := range resp.Users {
		l.Info("  user", zap.String("id", u.ID), zap.String("name", u.Name), zap.String("email", u.Email))
	}
	return nil
}

func unexpected(want string, got error) error {
	if got == nil {
		return fmt.Errorf("expected %s error, got success", want)
	}
	return fmt.Errorf("expected %s error: %w", want, got)
}
