package consignment

import (
	"strings"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleChannel represents where a sale was made
type SaleChannel string

const (
	SaleChannelPOS    SaleChannel = "POS"
	SaleChannelOnline SaleChannel = "ONLINE"
)

// IsValid checks if the channel is a valid SaleChannel
func (c SaleChannel) IsValid() bool {
	return c == SaleChannelPOS || c == SaleChannelOnline
}

// TransactionStatus represents the status of a sale transaction
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusVoided    TransactionStatus = "VOIDED"
)

// SyncStatus represents the accounting sync state of an entity
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "PENDING"
	SyncStatusSynced  SyncStatus = "SYNCED"
	SyncStatusFailed  SyncStatus = "FAILED"
)

// Transaction records one sale of one consigned item. The provider's
// commission rate is snapshotted at sale time so later rate changes do not
// affect settled or unsettled history.
//
// Invariant: ProviderAmount + ShopAmount == SalePrice.
type Transaction struct {
	shared.TenantAggregateRoot
	ItemID          uuid.UUID
	ItemName        string
	ProviderID      uuid.UUID
	OrderID         *uuid.UUID // set for storefront sales
	SalePrice       decimal.Decimal
	SplitPercentage decimal.Decimal // provider's rate at sale time
	ProviderAmount  decimal.Decimal
	ShopAmount      decimal.Decimal
	SaleDate        time.Time
	Channel         SaleChannel
	PaymentMethod   string
	Status          TransactionStatus
	ProviderPaidOut bool
	PaidOutAt       *time.Time
	PayoutID        *uuid.UUID
	PayoutMethod    string
	PayoutNotes     string
	SyncStatus      SyncStatus
	SyncError       string
	SyncedAt        *time.Time
	VoidedAt        *time.Time
	VoidReason      string
}

// NewTransaction records a sale of an item at the given price, splitting the
// proceeds using the provider's current commission rate.
func NewTransaction(tenantID, itemID, providerID uuid.UUID, itemName string, salePrice, splitPercentage decimal.Decimal, channel SaleChannel) (*Transaction, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if providerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider ID cannot be empty")
	}
	if strings.TrimSpace(itemName) == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Invalid sale channel")
	}

	split, err := CalculateSplit(salePrice, splitPercentage)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ItemID:              itemID,
		ItemName:            itemName,
		ProviderID:          providerID,
		SalePrice:           salePrice,
		SplitPercentage:     splitPercentage,
		ProviderAmount:      split.ProviderAmount,
		ShopAmount:          split.ShopAmount,
		SaleDate:            time.Now(),
		Channel:             channel,
		Status:              TransactionStatusCompleted,
		SyncStatus:          SyncStatusPending,
	}

	tx.AddDomainEvent(NewTransactionRecordedEvent(tx))

	return tx, nil
}

// SetOrder links the transaction to a storefront order
func (t *Transaction) SetOrder(orderID uuid.UUID) {
	t.OrderID = &orderID
	t.UpdatedAt = time.Now()
}

// SetPaymentMethod records how the buyer paid
func (t *Transaction) SetPaymentMethod(method string) {
	t.PaymentMethod = method
	t.UpdatedAt = time.Now()
}

// AssignToPayout stamps the transaction with a pending payout batch.
// Fails if the transaction is already settled or already batched.
func (t *Transaction) AssignToPayout(payoutID uuid.UUID) error {
	if t.Status == TransactionStatusVoided {
		return shared.NewDomainError("INVALID_STATE", "Voided transactions cannot be paid out")
	}
	if t.ProviderPaidOut {
		return shared.NewDomainError("INVALID_STATE", "Transaction has already been paid out")
	}
	if t.PayoutID != nil {
		return shared.NewDomainError("ALREADY_BATCHED", "Transaction is already part of a payout batch")
	}
	t.PayoutID = &payoutID
	t.UpdatedAt = time.Now()
	return nil
}

// ReleaseFromPayout removes the transaction from a cancelled pending payout
func (t *Transaction) ReleaseFromPayout() error {
	if t.ProviderPaidOut {
		return shared.NewDomainError("INVALID_STATE", "Settled transactions cannot be released")
	}
	t.PayoutID = nil
	t.UpdatedAt = time.Now()
	return nil
}

// MarkPaidOut settles the transaction as part of its payout batch
func (t *Transaction) MarkPaidOut(payoutID uuid.UUID, method, notes string, paidAt time.Time) error {
	if t.ProviderPaidOut {
		return shared.NewDomainError("INVALID_STATE", "Transaction has already been paid out")
	}
	if t.PayoutID == nil || *t.PayoutID != payoutID {
		return shared.NewDomainError("INVALID_STATE", "Transaction does not belong to this payout batch")
	}
	t.ProviderPaidOut = true
	t.PaidOutAt = &paidAt
	t.PayoutMethod = method
	t.PayoutNotes = notes
	t.UpdatedAt = time.Now()
	return nil
}

// Void cancels the sale. Only unsettled transactions can be voided; the
// caller is responsible for returning the item to Available.
func (t *Transaction) Void(reason string) error {
	if t.Status == TransactionStatusVoided {
		return shared.NewDomainError("INVALID_STATE", "Transaction is already voided")
	}
	if t.ProviderPaidOut {
		return shared.NewDomainError("INVALID_STATE", "Paid-out transactions cannot be voided")
	}
	if t.PayoutID != nil {
		return shared.NewDomainError("INVALID_STATE", "Transaction belongs to a pending payout batch; cancel the payout first")
	}
	now := time.Now()
	t.Status = TransactionStatusVoided
	t.VoidedAt = &now
	t.VoidReason = reason
	t.UpdatedAt = now
	t.AddDomainEvent(NewTransactionVoidedEvent(t, reason))
	return nil
}

// MarkSynced records a successful accounting sync
func (t *Transaction) MarkSynced() {
	now := time.Now()
	t.SyncStatus = SyncStatusSynced
	t.SyncError = ""
	t.SyncedAt = &now
	t.UpdatedAt = now
}

// MarkSyncFailed records a failed accounting sync. There is no automatic
// retry; a manual re-sync clears the failure.
func (t *Transaction) MarkSyncFailed(errMsg string) {
	t.SyncStatus = SyncStatusFailed
	t.SyncError = errMsg
	t.UpdatedAt = time.Now()
}

// IsSettleable returns true if the transaction can join a payout batch
func (t *Transaction) IsSettleable() bool {
	return t.Status == TransactionStatusCompleted && !t.ProviderPaidOut && t.PayoutID == nil
}
