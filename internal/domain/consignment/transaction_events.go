package consignment

import (
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeTransaction = "Transaction"

// Event type constants
const (
	EventTypeTransactionRecorded = "TransactionRecorded"
	EventTypeTransactionVoided   = "TransactionVoided"
)

// TransactionRecordedEvent is published when a sale is recorded
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionID  uuid.UUID       `json:"transaction_id"`
	ItemID         uuid.UUID       `json:"item_id"`
	ProviderID     uuid.UUID       `json:"provider_id"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	ProviderAmount decimal.Decimal `json:"provider_amount"`
	ShopAmount     decimal.Decimal `json:"shop_amount"`
	Channel        SaleChannel     `json:"channel"`
}

// NewTransactionRecordedEvent creates a new TransactionRecordedEvent
func NewTransactionRecordedEvent(tx *Transaction) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionRecorded, AggregateTypeTransaction, tx.ID, tx.TenantID),
		TransactionID:   tx.ID,
		ItemID:          tx.ItemID,
		ProviderID:      tx.ProviderID,
		SalePrice:       tx.SalePrice,
		ProviderAmount:  tx.ProviderAmount,
		ShopAmount:      tx.ShopAmount,
		Channel:         tx.Channel,
	}
}

// TransactionVoidedEvent is published when a sale is voided
type TransactionVoidedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID `json:"transaction_id"`
	ItemID        uuid.UUID `json:"item_id"`
	ProviderID    uuid.UUID `json:"provider_id"`
	Reason        string    `json:"reason,omitempty"`
}

// NewTransactionVoidedEvent creates a new TransactionVoidedEvent
func NewTransactionVoidedEvent(tx *Transaction, reason string) *TransactionVoidedEvent {
	return &TransactionVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionVoided, AggregateTypeTransaction, tx.ID, tx.TenantID),
		TransactionID:   tx.ID,
		ItemID:          tx.ItemID,
		ProviderID:      tx.ProviderID,
		Reason:          reason,
	}
}
