package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "user-management-service/internal/domain/user"
	"user-management-service/internal/usecase/user"
)

const (
	TemplateWelcome        = "welcome"
	TemplateProfileUpdated = "profile_updated"
)

// Message is a transport-neutral email.
type Message struct {
	To       string
	Subject  string
	Text     string
	Template string
	Data     map[string]any
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var _ user.Notifier = (*EmailNotifier)(nil)

// EmailNotifier composes lifecycle messages and delivers them through a Sender.
type EmailNotifier struct {
	sender Sender
	log    *zap.Logger
}

// NewEmailNotifier creates a notifier that delivers through sender.
func NewEmailNotifier(sender Sender, log *zap.Logger) *EmailNotifier {
	return &EmailNotifier{sender: sender, log: log}
}

// SendWelcome greets a newly created user.
func (n *EmailNotifier) SendWelcome(ctx context.Context, u *domain.User) error {
	return n.deliver(ctx, WelcomeMessage(u))
}

// SendUpdateNotice tells a user their profile changed.
func (n *EmailNotifier) SendUpdateNotice(ctx context.Context, u *domain.User) error {
	return n.deliver(ctx, UpdateNoticeMessage(u))
}

func (n *EmailNotifier) deliver(ctx context.Context, msg Message) error {
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s to %s: %w", msg.Template, msg.To, err)
	}
	n.log.Debug("notification delivered", zap.String("template", msg.Template), zap.String("to", msg.To))
	return nil
}

// WelcomeMessage builds the message sent after a user is created.
func WelcomeMessage(u *domain.User) Message {
	return Message{
		To:       u.Email,
		Subject:  "Welcome aboard",
		Text:     fmt.Sprintf("Hi %s,\n\nYour account has been created with the email %s.\n", u.Name, u.Email),
		Template: TemplateWelcome,
		Data: map[string]any{
			"user_id": u.ID,
			"name":    u.Name,
			"email":   u.Email,
		},
	}
}

// UpdateNoticeMessage builds the message sent after a user's profile changes.
func UpdateNoticeMessage(u *domain.User) Message {
	return Message{
		To:       u.Email,
		Subject:  "Your profile was updated",
		Text:     fmt.Sprintf("Hi %s,\n\nYour profile details were just updated. Current email: %s.\n", u.Name, u.Email),
		Template: TemplateProfileUpdated,
		Data: map[string]any{
			"user_id": u.ID,
			"name":    u.Name,
			"email":   u.Email,
		},
	}
}
