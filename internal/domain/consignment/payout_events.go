package consignment

import (
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePayout = "Payout"

// Event type constants
const (
	EventTypePayoutCreated = "PayoutCreated"
	EventTypePayoutPaid    = "PayoutPaid"
)

// PayoutCreatedEvent is published when a payout batch is created
type PayoutCreatedEvent struct {
	shared.BaseDomainEvent
	PayoutID         uuid.UUID       `json:"payout_id"`
	ProviderID       uuid.UUID       `json:"provider_id"`
	TransactionCount int             `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// NewPayoutCreatedEvent creates a new PayoutCreatedEvent
func NewPayoutCreatedEvent(payout *Payout) *PayoutCreatedEvent {
	return &PayoutCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePayoutCreated, AggregateTypePayout, payout.ID, payout.TenantID),
		PayoutID:         payout.ID,
		ProviderID:       payout.ProviderID,
		TransactionCount: payout.TransactionCount,
		TotalAmount:      payout.TotalAmount,
	}
}

// PayoutPaidEvent is published when a payout batch is settled
type PayoutPaidEvent struct {
	shared.BaseDomainEvent
	PayoutID     uuid.UUID       `json:"payout_id"`
	ProviderID   uuid.UUID       `json:"provider_id"`
	ProviderName string          `json:"provider_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Method       string          `json:"method"`
}

// NewPayoutPaidEvent creates a new PayoutPaidEvent
func NewPayoutPaidEvent(payout *Payout) *PayoutPaidEvent {
	return &PayoutPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutPaid, AggregateTypePayout, payout.ID, payout.TenantID),
		PayoutID:        payout.ID,
		ProviderID:      payout.ProviderID,
		ProviderName:    payout.ProviderName,
		TotalAmount:     payout.TotalAmount,
		Method:          payout.Method,
	}
}
