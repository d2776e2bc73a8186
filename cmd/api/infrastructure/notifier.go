package infrastructure

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"user-management-service/internal/adapter/notifier"
	"user-management-service/internal/config"
	"user-management-service/internal/usecase/user"
)

// NewNotifier builds the notifier selected by NOTIFIER_DRIVER, bounded by
// NOTIFIER_TIMEOUT_SECONDS. The returned closer is nil when the transport holds
// no connection.
func NewNotifier(cfg *config.Config, l *zap.Logger) (user.Notifier, io.Closer, error) {
	nc := cfg.Notifier
	log := l.Named("notifier")

	var (
		sender notifier.Sender
		closer io.Closer
	)
	switch nc.Driver {
	case config.NotifierSimulated:
		sender = notifier.NewSimulated(nc.SimulatedDelay, nc.SimulatedFail, log)
	case config.NotifierRabbitMQ:
		mq, err := notifier.NewRabbitMQ(nc.RabbitMQURL, nc.RabbitMQQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		sender, closer = mq, mq
	case config.NotifierMailgun:
		sender = notifier.NewMailgun(nc.MailgunDomain, nc.MailgunAPIKey, nc.MailgunSender, nc.MailgunAPIBase)
	case config.NotifierSMTP:
		smtp, err := notifier.NewSMTP(notifier.SMTPConfig{
			Host:     nc.SMTPHost,
			Port:     nc.SMTPPort,
			Username: nc.SMTPUsername,
			Password: nc.SMTPPassword,
			From:     nc.SMTPFrom,
		})
		if err != nil {
			return nil, nil, err
		}
		sender = smtp
	default:
		return nil, nil, fmt.Errorf("unknown notifier driver %q", nc.Driver)
	}

	log.Info("notifier configured", zap.String("driver", nc.Driver), zap.Duration("timeout", nc.Timeout))
	return notifier.WithTimeout(notifier.NewEmailNotifier(sender, log), nc.Timeout), closer, nil
}
