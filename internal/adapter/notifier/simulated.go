package notifier

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrSimulatedFailure is returned by a Simulated sender configured to fail.
var ErrSimulatedFailure = errors.New("simulated notification failure")

// Simulated pretends to send email: it waits for Delay and logs the message.
type Simulated struct {
	Delay time.Duration
	Fail  bool
	log   *zap.Logger
}

// NewSimulated creates a simulated sender.
func NewSimulated(delay time.Duration, fail bool, log *zap.Logger) *Simulated {
	return &Simulated{Delay: delay, Fail: fail, log: log}
}

// Send waits for the configured delay, then logs or fails.
func (s *Simulated) Send(ctx context.Context, msg Message) error {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if s.Fail {
		return ErrSimulatedFailure
	}

	s.log.Info("simulated email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template),
	)
	return nil
}
