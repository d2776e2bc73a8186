package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for an email worker.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// amqpPublisher is the subset of *amqp.Channel used for publishing.
type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQ publishes messages as EmailJobs to a durable queue.
type RabbitMQ struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	pub   amqpPublisher
	queue string
}

// NewRabbitMQ dials the broker and declares a durable queue.
func NewRabbitMQ(url, queue string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare %s: %w", queue, err)
	}
	return &RabbitMQ{conn: conn, ch: ch, pub: ch, queue: queue}, nil
}

// Send publishes msg as a persistent JSON EmailJob.
func (r *RabbitMQ) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(EmailJob{
		To:       msg.To,
		Subject:  msg.Subject,
		Text:     msg.Text,
		Template: msg.Template,
		Data:     msg.Data,
	})
	if err != nil {
		return fmt.Errorf("encode email job: %w", err)
	}

	err = r.pub.PublishWithContext(ctx,
		"",      // default exchange
		r.queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish email job: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (r *RabbitMQ) Close() error {
	if r == nil {
		return nil
	}
	var firstErr error
	if r.ch != nil {
		if err := r.ch.Close(); err != nil {
			firstErr = err
		}
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
