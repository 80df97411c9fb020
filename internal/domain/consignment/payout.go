package consignment

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutStatus represents the status of a payout batch
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "PENDING"
	PayoutStatusPaid      PayoutStatus = "PAID"
	PayoutStatusCancelled PayoutStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PayoutStatus
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusPaid, PayoutStatusCancelled:
		return true
	}
	return false
}

// Payout is a batch settlement to one provider. It is an immutable snapshot
// of the transactions selected at creation time: marking it paid settles
// exactly that set, never "whatever is unpaid now". Once Paid, the batch
// only changes for accounting-sync bookkeeping.
type Payout struct {
	shared.TenantAggregateRoot
	ProviderID       uuid.UUID
	ProviderName     string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	TransactionIDs   []uuid.UUID
	TransactionCount int
	TotalAmount      decimal.Decimal
	Status           PayoutStatus
	Method           string
	Notes            string
	PaidAt           *time.Time
	CancelledAt      *time.Time
	SyncStatus       SyncStatus
	SyncError        string
	SyncedAt         *time.Time
}

// NewPayout creates a pending payout batch from a set of settleable
// transactions. The transaction set and total are fixed at creation.
func NewPayout(tenantID, providerID uuid.UUID, providerName string, periodStart, periodEnd time.Time, transactions []*Transaction) (*Payout, error) {
	if providerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider ID cannot be empty")
	}
	if periodEnd.Before(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end cannot be before period start")
	}
	if len(transactions) == 0 {
		return nil, shared.NewDomainError("EMPTY_PAYOUT", "A payout batch requires at least one unpaid transaction")
	}

	total := decimal.Zero
	ids := make([]uuid.UUID, 0, len(transactions))
	for _, tx := range transactions {
		if tx.ProviderID != providerID {
			return nil, shared.NewDomainError("INVALID_TRANSACTION", "Transaction belongs to a different provider")
		}
		if !tx.IsSettleable() {
			return nil, shared.NewDomainError("INVALID_TRANSACTION", "Transaction is not eligible for payout")
		}
		total = total.Add(tx.ProviderAmount)
		ids = append(ids, tx.ID)
	}

	payout := &Payout{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProviderID:          providerID,
		ProviderName:        providerName,
		PeriodStart:         periodStart,
		PeriodEnd:           periodEnd,
		TransactionIDs:      ids,
		TransactionCount:    len(ids),
		TotalAmount:         total,
		Status:              PayoutStatusPending,
		SyncStatus:          SyncStatusPending,
	}

	payout.AddDomainEvent(NewPayoutCreatedEvent(payout))

	return payout, nil
}

// MarkAsPaid settles the batch. Immutable afterwards except sync bookkeeping.
func (p *Payout) MarkAsPaid(method, notes string) error {
	if p.Status != PayoutStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payouts can be marked as paid")
	}
	if method == "" {
		return shared.NewDomainError("INVALID_PAYOUT_METHOD", "Payout method is required")
	}
	now := time.Now()
	p.Status = PayoutStatusPaid
	p.Method = method
	p.Notes = notes
	p.PaidAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewPayoutPaidEvent(p))
	return nil
}

// Cancel cancels a pending batch, releasing its transactions for a future payout
func (p *Payout) Cancel() error {
	if p.Status != PayoutStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payouts can be cancelled")
	}
	now := time.Now()
	p.Status = PayoutStatusCancelled
	p.CancelledAt = &now
	p.UpdatedAt = now
	return nil
}

// MarkSynced records a successful accounting sync
func (p *Payout) MarkSynced() {
	now := time.Now()
	p.SyncStatus = SyncStatusSynced
	p.SyncError = ""
	p.SyncedAt = &now
	p.UpdatedAt = now
}

// MarkSyncFailed records a failed accounting sync
func (p *Payout) MarkSyncFailed(errMsg string) {
	p.SyncStatus = SyncStatusFailed
	p.SyncError = errMsg
	p.UpdatedAt = time.Now()
}

// PayoutReport is the read-only preview of what a payout batch would contain.
// Generating it has no side effects, so it is safe to call repeatedly: it
// reflects whatever is currently unpaid in range.
type PayoutReport struct {
	ProviderID       uuid.UUID
	PeriodStart      time.Time
	PeriodEnd        time.Time
	TransactionCount int
	TotalAmount      decimal.Decimal
	Transactions     []*Transaction
}

// BuildPayoutReport aggregates settleable transactions into a preview report
func BuildPayoutReport(providerID uuid.UUID, periodStart, periodEnd time.Time, transactions []*Transaction) PayoutReport {
	total := decimal.Zero
	eligible := make([]*Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if !tx.IsSettleable() {
			continue
		}
		total = total.Add(tx.ProviderAmount)
		eligible = append(eligible, tx)
	}
	return PayoutReport{
		ProviderID:       providerID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		TransactionCount: len(eligible),
		TotalAmount:      total,
		Transactions:     eligible,
	}
}
