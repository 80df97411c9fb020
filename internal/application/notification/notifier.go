package notification

import (
	"context"

	"go.uber.org/zap"
)

// Template identifiers understood by the delivery channel. A channel that
// has no template support (the logging notifier) renders subject and data
// directly.
const (
	TemplateProviderApproved    = "provider-approved"
	TemplateProviderRejected    = "provider-rejected"
	TemplatePayoutPaid          = "payout-paid"
	TemplateStatementReady      = "statement-ready"
	TemplateOrderConfirmation   = "order-confirmation"
	TemplatePaymentConfirmation = "payment-confirmation"
)

// Notification is a single outbound message to one recipient
type Notification struct {
	To         string                 `json:"to"`
	Subject    string                 `json:"subject"`
	TemplateID string                 `json:"template_id"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// Notifier delivers notifications over some channel (email, webhook, log).
// Implementations must be safe for concurrent use.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// LoggingNotifier writes notifications to the application log instead of
// delivering them. Used in development and as the default when no email
// provider is configured.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a notifier that logs instead of sending
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

// Send logs the notification at info level
func (n *LoggingNotifier) Send(_ context.Context, notification Notification) error {
	n.logger.Info("notification",
		zap.String("to", notification.To),
		zap.String("subject", notification.Subject),
		zap.String("template_id", notification.TemplateID),
		zap.Any("data", notification.Data),
	)
	return nil
}

// Ensure LoggingNotifier implements Notifier
var _ Notifier = (*LoggingNotifier)(nil)
