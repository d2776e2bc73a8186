package notifier

import (
	"context"
	"time"

	domain "user-management-service/internal/domain/user"
	"user-management-service/internal/usecase/user"
)

type timeoutNotifier struct {
	next    user.Notifier
	timeout time.Duration
}

// WithTimeout bounds every call to next by d. A non-positive d returns next unchanged.
func WithTimeout(next user.Notifier, d time.Duration) user.Notifier {
	if d <= 0 {
		return next
	}
	return &timeoutNotifier{next: next, timeout: d}
}

func (t *timeoutNotifier) SendWelcome(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.SendWelcome(ctx, u)
}

func (t *timeoutNotifier) SendUpdateNotice(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.SendUpdateNotice(ctx, u)
}
