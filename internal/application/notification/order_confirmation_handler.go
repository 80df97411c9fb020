package notification

import (
	"context"
	"fmt"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// OrderConfirmationHandler emails shoppers when an order is placed and
// again when its payment is confirmed
type OrderConfirmationHandler struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewOrderConfirmationHandler creates a handler for order lifecycle events
func NewOrderConfirmationHandler(notifier Notifier, logger *zap.Logger) *OrderConfirmationHandler {
	return &OrderConfirmationHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderConfirmationHandler) EventTypes() []string {
	return []string{
		storefront.EventTypeOrderCreated,
		storefront.EventTypeOrderPaid,
	}
}

// Handle sends the confirmation appropriate to the event
func (h *OrderConfirmationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var n Notification

	switch e := event.(type) {
	case *storefront.OrderCreatedEvent:
		if e.CustomerEmail == "" {
			h.logger.Debug("order has no customer email, skipping confirmation",
				zap.String("order_id", e.OrderID.String()),
			)
			return nil
		}
		n = Notification{
			To:         e.CustomerEmail,
			Subject:    fmt.Sprintf("Order %s received", e.OrderNumber),
			TemplateID: TemplateOrderConfirmation,
			Data: map[string]interface{}{
				"order_number": e.OrderNumber,
				"item_count":   e.ItemCount,
				"total":        e.TotalAmount.StringFixed(2),
			},
		}
	case *storefront.OrderPaidEvent:
		if e.CustomerEmail == "" {
			h.logger.Debug("order has no customer email, skipping payment confirmation",
				zap.String("order_id", e.OrderID.String()),
			)
			return nil
		}
		n = Notification{
			To:         e.CustomerEmail,
			Subject:    fmt.Sprintf("Payment received for order %s", e.OrderNumber),
			TemplateID: TemplatePaymentConfirmation,
			Data: map[string]interface{}{
				"order_number": e.OrderNumber,
				"total":        e.TotalAmount.StringFixed(2),
			},
		}
	default:
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	if err := h.notifier.Send(ctx, n); err != nil {
		h.logger.Error("failed to send order notification",
			zap.String("event_type", event.EventType()),
			zap.String("to", n.To),
			zap.Error(err),
		)
		return nil
	}

	h.logger.Info("order notification sent",
		zap.String("event_type", event.EventType()),
		zap.String("to", n.To),
	)
	return nil
}

// Ensure OrderConfirmationHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderConfirmationHandler)(nil)
