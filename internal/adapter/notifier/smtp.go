package notifier

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTP sends messages through an SMTP relay with gomail.
type SMTP struct {
	from   string
	dialer mailDialer
}

// NewSMTP creates an SMTP sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, errors.New("SMTP host is not configured")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid SMTP port: %d", cfg.Port)
	}
	if cfg.From == "" {
		return nil, errors.New("email from address is not configured")
	}
	return &SMTP{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

// Send delivers msg. gomail has no context support, so the dial runs in a
// goroutine and Send returns early when ctx is done.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m := s.compose(msg)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	}
}

func (s *SMTP) compose(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	return m
}
