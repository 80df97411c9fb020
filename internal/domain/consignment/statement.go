package consignment

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatementPeriod identifies a calendar month
type StatementPeriod struct {
	Year  int
	Month time.Month
}

// NewStatementPeriod validates and creates a statement period
func NewStatementPeriod(year int, month int) (StatementPeriod, error) {
	if month < 1 || month > 12 {
		return StatementPeriod{}, shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}
	if year < 2000 || year > 2200 {
		return StatementPeriod{}, shared.NewDomainError("INVALID_PERIOD", "Year is out of range")
	}
	return StatementPeriod{Year: year, Month: time.Month(month)}, nil
}

// Bounds returns the inclusive start and exclusive end of the period in UTC
func (p StatementPeriod) Bounds() (time.Time, time.Time) {
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Previous returns the preceding calendar month
func (p StatementPeriod) Previous() StatementPeriod {
	start, _ := p.Bounds()
	prev := start.AddDate(0, -1, 0)
	return StatementPeriod{Year: prev.Year(), Month: prev.Month()}
}

// Statement is a monthly financial summary for one provider.
//
// Continuity invariant: the opening balance of period N equals the closing
// balance of period N-1 (zero when no prior statement exists). A statement
// is immutable once the provider has viewed it.
type Statement struct {
	shared.TenantAggregateRoot
	ProviderID     uuid.UUID
	ProviderName   string
	Year           int
	Month          time.Month
	PeriodStart    time.Time
	PeriodEnd      time.Time
	OpeningBalance decimal.Decimal
	TotalSales     decimal.Decimal // sum of SalePrice in period
	TotalEarnings  decimal.Decimal // sum of ProviderAmount in period
	TotalPayouts   decimal.Decimal // sum of paid payout totals in period
	ClosingBalance decimal.Decimal
	SaleCount      int
	GeneratedAt    time.Time
	Viewed         bool
	ViewedAt       *time.Time
}

// NewStatement computes a statement for one provider and period.
// ClosingBalance = OpeningBalance + TotalEarnings - TotalPayouts.
func NewStatement(tenantID, providerID uuid.UUID, providerName string, period StatementPeriod, openingBalance decimal.Decimal, transactions []*Transaction, payouts []*Payout) (*Statement, error) {
	if providerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider ID cannot be empty")
	}

	start, end := period.Bounds()

	totalSales := decimal.Zero
	totalEarnings := decimal.Zero
	saleCount := 0
	for _, tx := range transactions {
		if tx.Status != TransactionStatusCompleted {
			continue
		}
		totalSales = totalSales.Add(tx.SalePrice)
		totalEarnings = totalEarnings.Add(tx.ProviderAmount)
		saleCount++
	}

	totalPayouts := decimal.Zero
	for _, payout := range payouts {
		if payout.Status != PayoutStatusPaid {
			continue
		}
		totalPayouts = totalPayouts.Add(payout.TotalAmount)
	}

	stmt := &Statement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProviderID:          providerID,
		ProviderName:        providerName,
		Year:                period.Year,
		Month:               period.Month,
		PeriodStart:         start,
		PeriodEnd:           end,
		OpeningBalance:      openingBalance,
		TotalSales:          totalSales,
		TotalEarnings:       totalEarnings,
		TotalPayouts:        totalPayouts,
		ClosingBalance:      openingBalance.Add(totalEarnings).Sub(totalPayouts),
		SaleCount:           saleCount,
		GeneratedAt:         time.Now(),
	}

	stmt.AddDomainEvent(NewStatementGeneratedEvent(stmt))

	return stmt, nil
}

// MarkViewed records that the provider has viewed the statement, freezing it
func (s *Statement) MarkViewed() {
	if s.Viewed {
		return
	}
	now := time.Now()
	s.Viewed = true
	s.ViewedAt = &now
	s.UpdatedAt = now
}

// Period returns the statement's period
func (s *Statement) Period() StatementPeriod {
	return StatementPeriod{Year: s.Year, Month: s.Month}
}
