// Package notifier implements the user.Notifier port.
//
// EmailNotifier turns lifecycle events into Messages and hands them to a
// Sender. Senders are transports: Simulated (log only, optional delay and
// failure), RabbitMQ (publishes an EmailJob for an out-of-process worker),
// Mailgun (HTTP API) and SMTP (gomail). WithTimeout bounds any Notifier.
package notifier
