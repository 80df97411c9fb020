package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyReconciliation represents one day's takings split by channel, used
// to balance the register and the storefront against recorded sales
type DailyReconciliation struct {
	Date          time.Time       `json:"date"`
	POSCount      int64           `json:"pos_count"`
	POSGross      decimal.Decimal `json:"pos_gross"`
	OnlineCount   int64           `json:"online_count"`
	OnlineGross   decimal.Decimal `json:"online_gross"`
	VoidCount     int64           `json:"void_count"`
	VoidedAmount  decimal.Decimal `json:"voided_amount"`
	TotalGross    decimal.Decimal `json:"total_gross"`
	ProviderShare decimal.Decimal `json:"provider_share"`
	ShopShare     decimal.Decimal `json:"shop_share"`
}

// ProviderBalance represents what the shop currently owes one provider:
// settled sales not yet included in a payout
type ProviderBalance struct {
	ProviderID   uuid.UUID       `json:"provider_id"`
	ProviderCode string          `json:"provider_code"`
	ProviderName string          `json:"provider_name"`
	UnpaidCount  int64           `json:"unpaid_count"`
	UnpaidAmount decimal.Decimal `json:"unpaid_amount"`
}

// PayoutSummary provides aggregated payout statistics for a period
type PayoutSummary struct {
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	PaidCount     int64           `json:"paid_count"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	PendingCount  int64           `json:"pending_count"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// FinanceReportFilter defines filtering options for finance reports
type FinanceReportFilter struct {
	TenantID  uuid.UUID `json:"-"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// FinanceReportRepository defines the interface for finance report queries
type FinanceReportRepository interface {
	// GetDailyReconciliation returns per-day takings for the period
	GetDailyReconciliation(filter FinanceReportFilter) ([]DailyReconciliation, error)

	// GetProviderBalances returns outstanding amounts owed per provider
	GetProviderBalances(tenantID uuid.UUID) ([]ProviderBalance, error)

	// GetPayoutSummary returns aggregated payout statistics for the period
	GetPayoutSummary(filter FinanceReportFilter) (*PayoutSummary, error)
}
