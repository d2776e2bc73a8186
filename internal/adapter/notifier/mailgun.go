package notifier

import (
	"context"
	"fmt"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends messages through the Mailgun HTTP API.
type Mailgun struct {
	client *mg.MailgunImpl
	sender string
}

// NewMailgun creates a Mailgun sender. An empty apiBase keeps the client default.
func NewMailgun(domain, apiKey, sender, apiBase string) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if apiBase != "" {
		client.SetAPIBase(apiBase)
	}
	return &Mailgun{client: client, sender: sender}
}

// Send delivers msg. The caller's context bounds the request.
func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	message := m.client.NewMessage(m.sender, msg.Subject, msg.Text, msg.To)
	if msg.Template != "" {
		if err := message.AddTag(msg.Template); err != nil {
			return fmt.Errorf("mailgun tag: %w", err)
		}
	}

	if _, _, err := m.client.Send(ctx, message); err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	return nil
}
