package notification

import (
	"context"
	"fmt"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProviderLifecycleHandler emails providers when their registration is
// approved or rejected
type ProviderLifecycleHandler struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewProviderLifecycleHandler creates a handler for provider approval and rejection events
func NewProviderLifecycleHandler(notifier Notifier, logger *zap.Logger) *ProviderLifecycleHandler {
	return &ProviderLifecycleHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ProviderLifecycleHandler) EventTypes() []string {
	return []string{
		consignment.EventTypeProviderApproved,
		consignment.EventTypeProviderRejected,
	}
}

// Handle builds and sends the notification for the lifecycle event.
// Delivery failures are logged and swallowed so that event handling
// never fails the triggering operation.
func (h *ProviderLifecycleHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var n Notification

	switch e := event.(type) {
	case *consignment.ProviderApprovedEvent:
		if e.Email == "" {
			h.logger.Debug("provider has no email, skipping approval notification",
				zap.String("provider_id", e.ProviderID.String()),
			)
			return nil
		}
		n = Notification{
			To:         e.Email,
			Subject:    "Your consignor account has been approved",
			TemplateID: TemplateProviderApproved,
			Data: map[string]interface{}{
				"provider_name": e.Name,
			},
		}
	case *consignment.ProviderRejectedEvent:
		if e.Email == "" {
			h.logger.Debug("provider has no email, skipping rejection notification",
				zap.String("provider_id", e.ProviderID.String()),
			)
			return nil
		}
		n = Notification{
			To:         e.Email,
			Subject:    "Your consignor registration was not approved",
			TemplateID: TemplateProviderRejected,
			Data: map[string]interface{}{
				"provider_name": e.Name,
				"reason":        e.Reason,
			},
		}
	default:
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	if err := h.notifier.Send(ctx, n); err != nil {
		h.logger.Error("failed to send provider lifecycle notification",
			zap.String("event_type", event.EventType()),
			zap.String("to", n.To),
			zap.Error(err),
		)
		// Notification failure must not fail the event handling
		return nil
	}

	h.logger.Info("provider lifecycle notification sent",
		zap.String("event_type", event.EventType()),
		zap.String("to", n.To),
	)
	return nil
}

// Ensure ProviderLifecycleHandler implements shared.EventHandler
var _ shared.EventHandler = (*ProviderLifecycleHandler)(nil)
