package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProvider(t *testing.T, tenantID uuid.UUID, email string) *consignment.Provider {
	t.Helper()
	provider, err := consignment.NewProvider(tenantID, "PRV-001", "Jordan Reyes", decimal.NewFromInt(60))
	require.NoError(t, err)
	require.NoError(t, provider.Update("Jordan Reyes", "Jordan Reyes", email, "", ""))
	provider.ClearDomainEvents()
	return provider
}

func TestProviderLifecycleHandler(t *testing.T) {
	tenantID := uuid.New()
	providerID := uuid.New()

	t.Run("sends approval notification to provider email", func(t *testing.T) {
		notifier := new(MockNotifier)
		handler := NewProviderLifecycleHandler(notifier, zap.NewNop())

		notifier.On("Send", mock.Anything, mock.MatchedBy(func(n Notification) bool {
			return n.To == "jordan@example.com" && n.TemplateID == TemplateProviderApproved
		})).Return(nil)

		event := &consignment.ProviderApprovedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(
				consignment.EventTypeProviderApproved, consignment.AggregateTypeProvider, providerID, tenantID),
			ProviderID: providerID,
			Name:       "Jordan Reyes",
			Email:      "jordan@example.com",
		}

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("rejection notification carries the reason", func(t *testing.T) {
		notifier := new(MockNotifier)
		handler := NewProviderLifecycleHandler(notifier, zap.NewNop())

		var sent Notification
		notifier.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			sent = args.Get(1).(Notification)
		}).Return(nil)

		event := &consignment.ProviderRejectedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(
				consignment.EventTypeProviderRejected, consignment.AggregateTypeProvider, providerID, tenantID),
			ProviderID: providerID,
			Name:       "Jordan Reyes",
			Email:      "jordan@example.com",
			Reason:     "duplicate registration",
		}

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
		assert.Equal(t, TemplateProviderRejected, sent.TemplateID)
		assert.Equal(t, "duplicate registration", sent.Data["reason"])
	})

	t.Run("skips provider without email", func(t *testing.T) {
		notifier := new(MockNotifier)
		handler := NewProviderLifecycleHandler(notifier, zap.NewNop())

		event := &consignment.ProviderApprovedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(
				consignment.EventTypeProviderApproved, consignment.AggregateTypeProvider, providerID, tenantID),
			ProviderID: providerID,
			Name:       "Jordan Reyes",
		}

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("delivery failure does not fail the handler", func(t *testing.T) {
		notifier := new(MockNotifier)
		handler := NewProviderLifecycleHandler(notifier, zap.NewNop())

		notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		event := &consignment.ProviderApprovedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(
				consignment.EventTypeProviderApproved, consignment.AggregateTypeProvider, providerID, tenantID),
			ProviderID: providerID,
			Name:       "Jordan Reyes",
			Email:      "jordan@example.com",
		}

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
	})
}

func TestPayoutPaidHandler(t *testing.T) {
	tenantID := uuid.New()
	payoutID := uuid.New()

	newEvent := func(providerID uuid.UUID) *consignment.PayoutPaidEvent {
		return &consignment.PayoutPaidEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(
				consignment.EventTypePayoutPaid, consignment.AggregateTypePayout, payoutID, tenantID),
			PayoutID:     payoutID,
			ProviderID:   providerID,
			ProviderName: "Jordan Reyes",
			TotalAmount:  decimal.RequireFromString("125.40"),
			Method:       "check",
		}
	}

	t.Run("resolves email from provider record", func(t *testing.T) {
		provider := newTestProvider(t, tenantID, "jordan@example.com")
		providerRepo := new(MockProviderRepository)
		notifier := new(MockNotifier)
		handler := NewPayoutPaidHandler(providerRepo, notifier, zap.NewNop())

		providerRepo.On("FindByIDForTenant", mock.Anything, tenantID, provider.ID).Return(provider, nil)

		var sent Notification
		notifier.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			sent = args.Get(1).(Notification)
		}).Return(nil)

		err := handler.Handle(context.Background(), newEvent(provider.ID))

		require.NoError(t, err)
		assert.Equal(t, "jordan@example.com", sent.To)
		assert.Equal(t, TemplatePayoutPaid, sent.TemplateID)
		assert.Equal(t, "125.40", sent.Data["amount"])
		assert.Equal(t, "check", sent.Data["method"])
	})

	t.Run("provider lookup failure is swallowed", func(t *testing.T) {
		providerRepo := new(MockProviderRepository)
		notifier := new(MockNotifier)
		handler := NewPayoutPaidHandler(providerRepo, notifier, zap.NewNop())

		providerID := uuid.New()
		providerRepo.On("FindByIDForTenant", mock.Anything, tenantID, providerID).
			Return(nil, errors.New("connection reset"))

		err := handler.Handle(context.Background(), newEvent(providerID))

		require.NoError(t, err)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("skips provider without email", func(t *testing.T) {
		provider := newTestProvider(t, tenantID, "")
		providerRepo := new(MockProviderRepository)
		notifier := new(MockNotifier)
		handler := NewPayoutPaidHandler(providerRepo, notifier, zap.NewNop())

		providerRepo.On("FindByIDForTenant", mock.Anything, tenantID, provider.ID).Return(provider, nil)

		err := handler.Handle(context.Background(), newEvent(provider.ID))

		require.NoError(t, err)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestStatementGeneratedHandler(t *testing.T) {
	tenantID := uuid.New()
	statementID := uuid.New()

	t.Run("sends statement ready notice with period and balance", func(t *testing.T) {
		provider := newTestProvider(t, tenantID, "jordan@example.com")
		providerRepo := new(MockProviderRepository)
		notifier := new(MockNotifier)
		handler := NewStatementGeneratedHandler(providerRepo, notifier, zap.NewNop())

		providerRepo.On("FindByIDForTenant", mock.Anything, tenantID, provider.ID).Return(provider, nil)

		var sent Notification
		notifier.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			sent = args.Get(1).(Notification)
		}).Return(nil)

		event := &consignment.StatementGeneratedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(
				consignment.EventTypeStatementGenerated, consignment.AggregateTypeStatement, statementID, tenantID),
			StatementID:    statementID,
			ProviderID:     provider.ID,
			ProviderName:   "Jordan Reyes",
			Year:           2026,
			Month:          time.August,
			ClosingBalance: decimal.RequireFromString("310.25"),
		}

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
		assert.Equal(t, "jordan@example.com", sent.To)
		assert.Equal(t, TemplateStatementReady, sent.TemplateID)
		assert.Equal(t, "August 2026", sent.Data["period"])
		assert.Equal(t, "310.25", sent.Data["closing_balance"])
		assert.Contains(t, sent.Subject, "August 2026")
	})
}

func TestOrderConfirmationHandler(t *testing.T) {
	tenantID := uuid.New()
	orderID := uuid.New()

	t.Run("order created sends confirmation", func(t *testing.T) {
		notifier := new(MockNotifier)
		handler := NewOrderConfirmationHandler(notifier, zap.NewNop())

		var sent Notification
		notifier.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			sent = args.Get(1).(Notification)
		}).Return(nil)

		event := &storefront.OrderCreatedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(
				storefront.EventTypeOrderCreated, storefront.AggregateTypeOrder, orderID, tenantID),
			OrderID:       orderID,
			OrderNumber:   "ORD-20260901-0042",
			CustomerEmail: "shopper@example.com",
			ItemCount:     2,
			TotalAmount:   decimal.RequireFromString("152.09"),
		}

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
		assert.Equal(t, "shopper@example.com", sent.To)
		assert.Equal(t, TemplateOrderConfirmation, sent.TemplateID)
		assert.Contains(t, sent.Subject, "ORD-20260901-0042")
		assert.Equal(t, "152.09", sent.Data["total"])
	})

	t.Run("order paid sends payment confirmation", func(t *testing.T) {
		notifier := new(MockNotifier)
		handler := NewOrderConfirmationHandler(notifier, zap.NewNop())

		var sent Notification
		notifier.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			sent = args.Get(1).(Notification)
		}).Return(nil)

		event := &storefront.OrderPaidEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(
				storefront.EventTypeOrderPaid, storefront.AggregateTypeOrder, orderID, tenantID),
			OrderID:       orderID,
			OrderNumber:   "ORD-20260901-0042",
			CustomerEmail: "shopper@example.com",
			TotalAmount:   decimal.RequireFromString("152.09"),
		}

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
		assert.Equal(t, TemplatePaymentConfirmation, sent.TemplateID)
	})

	t.Run("guest order without email is skipped", func(t *testing.T) {
		notifier := new(MockNotifier)
		handler := NewOrderConfirmationHandler(notifier, zap.NewNop())

		event := &storefront.OrderCreatedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(
				storefront.EventTypeOrderCreated, storefront.AggregateTypeOrder, orderID, tenantID),
			OrderID:     orderID,
			OrderNumber: "ORD-20260901-0043",
		}

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}
