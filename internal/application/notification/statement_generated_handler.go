package notification

import (
	"context"
	"fmt"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StatementGeneratedHandler emails providers when their monthly statement
// is ready
type StatementGeneratedHandler struct {
	providerRepo consignment.ProviderRepository
	notifier     Notifier
	logger       *zap.Logger
}

// NewStatementGeneratedHandler creates a handler for statement generation events
func NewStatementGeneratedHandler(
	providerRepo consignment.ProviderRepository,
	notifier Notifier,
	logger *zap.Logger,
) *StatementGeneratedHandler {
	return &StatementGeneratedHandler{
		providerRepo: providerRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StatementGeneratedHandler) EventTypes() []string {
	return []string{consignment.EventTypeStatementGenerated}
}

// Handle resolves the provider's email and sends the statement-ready notice
func (h *StatementGeneratedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	stmtEvent, ok := event.(*consignment.StatementGeneratedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", consignment.EventTypeStatementGenerated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			consignment.EventTypeStatementGenerated, event.EventType())
	}

	provider, err := h.providerRepo.FindByIDForTenant(ctx, stmtEvent.TenantID(), stmtEvent.ProviderID)
	if err != nil {
		h.logger.Error("failed to load provider for statement notification",
			zap.String("statement_id", stmtEvent.StatementID.String()),
			zap.String("provider_id", stmtEvent.ProviderID.String()),
			zap.Error(err),
		)
		return nil
	}
	if provider.Email == "" {
		h.logger.Debug("provider has no email, skipping statement notification",
			zap.String("provider_id", provider.ID.String()),
		)
		return nil
	}

	period := fmt.Sprintf("%s %d", stmtEvent.Month.String(), stmtEvent.Year)
	n := Notification{
		To:         provider.Email,
		Subject:    fmt.Sprintf("Your %s statement is ready", period),
		TemplateID: TemplateStatementReady,
		Data: map[string]interface{}{
			"provider_name":   stmtEvent.ProviderName,
			"period":          period,
			"closing_balance": stmtEvent.ClosingBalance.StringFixed(2),
		},
	}
	if err := h.notifier.Send(ctx, n); err != nil {
		h.logger.Error("failed to send statement notification",
			zap.String("statement_id", stmtEvent.StatementID.String()),
			zap.String("to", n.To),
			zap.Error(err),
		)
		return nil
	}

	h.logger.Info("statement notification sent",
		zap.String("statement_id", stmtEvent.StatementID.String()),
		zap.String("to", n.To),
	)
	return nil
}

// Ensure StatementGeneratedHandler implements shared.EventHandler
var _ shared.EventHandler = (*StatementGeneratedHandler)(nil)
