package notification

import (
	"context"
	"fmt"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PayoutPaidHandler emails providers when a payout batch is settled
type PayoutPaidHandler struct {
	providerRepo consignment.ProviderRepository
	notifier     Notifier
	logger       *zap.Logger
}

// NewPayoutPaidHandler creates a handler for payout settlement events
func NewPayoutPaidHandler(
	providerRepo consignment.ProviderRepository,
	notifier Notifier,
	logger *zap.Logger,
) *PayoutPaidHandler {
	return &PayoutPaidHandler{
		providerRepo: providerRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PayoutPaidHandler) EventTypes() []string {
	return []string{consignment.EventTypePayoutPaid}
}

// Handle looks up the provider's email and sends the payout confirmation.
// The event carries the provider id only, so the address is resolved from
// the current provider record.
func (h *PayoutPaidHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	paidEvent, ok := event.(*consignment.PayoutPaidEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", consignment.EventTypePayoutPaid),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			consignment.EventTypePayoutPaid, event.EventType())
	}

	provider, err := h.providerRepo.FindByIDForTenant(ctx, paidEvent.TenantID(), paidEvent.ProviderID)
	if err != nil {
		h.logger.Error("failed to load provider for payout notification",
			zap.String("payout_id", paidEvent.PayoutID.String()),
			zap.String("provider_id", paidEvent.ProviderID.String()),
			zap.Error(err),
		)
		return nil
	}
	if provider.Email == "" {
		h.logger.Debug("provider has no email, skipping payout notification",
			zap.String("provider_id", provider.ID.String()),
		)
		return nil
	}

	n := Notification{
		To:         provider.Email,
		Subject:    fmt.Sprintf("Payout of %s has been sent", paidEvent.TotalAmount.StringFixed(2)),
		TemplateID: TemplatePayoutPaid,
		Data: map[string]interface{}{
			"provider_name": paidEvent.ProviderName,
			"amount":        paidEvent.TotalAmount.StringFixed(2),
			"method":        paidEvent.Method,
		},
	}
	if err := h.notifier.Send(ctx, n); err != nil {
		h.logger.Error("failed to send payout notification",
			zap.String("payout_id", paidEvent.PayoutID.String()),
			zap.String("to", n.To),
			zap.Error(err),
		)
		return nil
	}

	h.logger.Info("payout notification sent",
		zap.String("payout_id", paidEvent.PayoutID.String()),
		zap.String("to", n.To),
	)
	return nil
}

// Ensure PayoutPaidHandler implements shared.EventHandler
var _ shared.EventHandler = (*PayoutPaidHandler)(nil)
