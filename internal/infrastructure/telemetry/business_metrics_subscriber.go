// Event bus subscriber that feeds the business metrics counters.
package telemetry

import (
	"context"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// BusinessMetricsSubscriber listens for domain events and increments the
// matching business counters. Keeping the counters event-driven means the
// application services stay free of metrics calls.
type BusinessMetricsSubscriber struct {
	metrics *BusinessMetrics
	logger  *zap.Logger
}

// NewBusinessMetricsSubscriber creates a subscriber backed by the given metrics.
func NewBusinessMetricsSubscriber(metrics *BusinessMetrics, logger *zap.Logger) *BusinessMetricsSubscriber {
	return &BusinessMetricsSubscriber{
		metrics: metrics,
		logger:  logger,
	}
}

// EventTypes returns the event types this subscriber is interested in.
func (s *BusinessMetricsSubscriber) EventTypes() []string {
	return []string{
		consignment.EventTypeTransactionRecorded,
		consignment.EventTypePayoutPaid,
		storefront.EventTypeOrderPaid,
	}
}

// Handle increments the counter matching the event. Unknown event types are
// logged and ignored; metrics must never fail event delivery.
func (s *BusinessMetricsSubscriber) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *consignment.TransactionRecordedEvent:
		s.metrics.RecordSale(ctx, e.TenantID(), string(e.Channel), e.SalePrice)
	case *consignment.PayoutPaidEvent:
		s.metrics.RecordPayoutPaid(ctx, e.TenantID(), e.ProviderID)
	case *storefront.OrderPaidEvent:
		// Online orders settle through Stripe only.
		s.metrics.RecordPayment(ctx, e.TenantID(), "stripe", PaymentStatusSuccess)
	default:
		s.logger.Debug("ignoring event with no metrics mapping",
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}

// Ensure BusinessMetricsSubscriber implements shared.EventHandler
var _ shared.EventHandler = (*BusinessMetricsSubscriber)(nil)
