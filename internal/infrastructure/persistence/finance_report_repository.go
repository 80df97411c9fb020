package persistence

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormFinanceReportRepository implements FinanceReportRepository using GORM
type GormFinanceReportRepository struct {
	db *gorm.DB
}

// NewGormFinanceReportRepository creates a new GormFinanceReportRepository
func NewGormFinanceReportRepository(db *gorm.DB) *GormFinanceReportRepository {
	return &GormFinanceReportRepository{db: db}
}

// GetDailyReconciliation returns per-day takings for the period
func (r *GormFinanceReportRepository) GetDailyReconciliation(filter report.FinanceReportFilter) ([]report.DailyReconciliation, error) {
	type dailyResult struct {
		Date          time.Time
		POSCount      int64
		POSGross      decimal.Decimal
		OnlineCount   int64
		OnlineGross   decimal.Decimal
		VoidCount     int64
		VoidedAmount  decimal.Decimal
		TotalGross    decimal.Decimal
		ProviderShare decimal.Decimal
		ShopShare     decimal.Decimal
	}

	var results []dailyResult

	err := r.db.Table("transactions t").
		Select(`
			DATE(t.sale_date) as date,
			COUNT(t.id) FILTER (WHERE t.status = 'COMPLETED' AND t.channel = 'POS') as pos_count,
			COALESCE(SUM(t.sale_price) FILTER (WHERE t.status = 'COMPLETED' AND t.channel = 'POS'), 0) as pos_gross,
			COUNT(t.id) FILTER (WHERE t.status = 'COMPLETED' AND t.channel = 'ONLINE') as online_count,
			COALESCE(SUM(t.sale_price) FILTER (WHERE t.status = 'COMPLETED' AND t.channel = 'ONLINE'), 0) as online_gross,
			COUNT(t.id) FILTER (WHERE t.status = 'VOIDED') as void_count,
			COALESCE(SUM(t.sale_price) FILTER (WHERE t.status = 'VOIDED'), 0) as voided_amount,
			COALESCE(SUM(t.sale_price) FILTER (WHERE t.status = 'COMPLETED'), 0) as total_gross,
			COALESCE(SUM(t.provider_amount) FILTER (WHERE t.status = 'COMPLETED'), 0) as provider_share,
			COALESCE(SUM(t.shop_amount) FILTER (WHERE t.status = 'COMPLETED'), 0) as shop_share
		`).
		Where("t.tenant_id = ?", filter.TenantID).
		Where("t.sale_date >= ? AND t.sale_date < ?", filter.StartDate, filter.EndDate).
		Group("DATE(t.sale_date)").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	days := make([]report.DailyReconciliation, len(results))
	for i, row := range results {
		days[i] = report.DailyReconciliation{
			Date:          row.Date,
			POSCount:      row.POSCount,
			POSGross:      row.POSGross,
			OnlineCount:   row.OnlineCount,
			OnlineGross:   row.OnlineGross,
			VoidCount:     row.VoidCount,
			VoidedAmount:  row.VoidedAmount,
			TotalGross:    row.TotalGross,
			ProviderShare: row.ProviderShare,
			ShopShare:     row.ShopShare,
		}
	}
	return days, nil
}

// GetProviderBalances returns outstanding amounts owed per provider
func (r *GormFinanceReportRepository) GetProviderBalances(tenantID uuid.UUID) ([]report.ProviderBalance, error) {
	type balanceResult struct {
		ProviderID   uuid.UUID
		ProviderCode string
		ProviderName string
		UnpaidCount  int64
		UnpaidAmount decimal.Decimal
	}

	var results []balanceResult

	err := r.db.Table("transactions t").
		Select(`
			t.provider_id,
			p.code as provider_code,
			p.name as provider_name,
			COUNT(t.id) as unpaid_count,
			COALESCE(SUM(t.provider_amount), 0) as unpaid_amount
		`).
		Joins("JOIN providers p ON p.id = t.provider_id").
		Where("t.tenant_id = ?", tenantID).
		Where("t.status = ?", consignment.TransactionStatusCompleted).
		Where("t.provider_paid_out = false AND t.payout_id IS NULL").
		Group("t.provider_id, p.code, p.name").
		Order("unpaid_amount DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	balances := make([]report.ProviderBalance, len(results))
	for i, row := range results {
		balances[i] = report.ProviderBalance{
			ProviderID:   row.ProviderID,
			ProviderCode: row.ProviderCode,
			ProviderName: row.ProviderName,
			UnpaidCount:  row.UnpaidCount,
			UnpaidAmount: row.UnpaidAmount,
		}
	}
	return balances, nil
}

// GetPayoutSummary returns aggregated payout statistics for the period
func (r *GormFinanceReportRepository) GetPayoutSummary(filter report.FinanceReportFilter) (*report.PayoutSummary, error) {
	type paidResult struct {
		PaidCount int64
		TotalPaid decimal.Decimal
	}
	type pendingResult struct {
		PendingCount  int64
		PendingAmount decimal.Decimal
	}

	var paid paidResult
	err := r.db.Table("payouts").
		Select(`
			COUNT(id) as paid_count,
			COALESCE(SUM(total_amount), 0) as total_paid
		`).
		Where("tenant_id = ?", filter.TenantID).
		Where("status = ?", consignment.PayoutStatusPaid).
		Where("paid_at >= ? AND paid_at < ?", filter.StartDate, filter.EndDate).
		Scan(&paid).Error
	if err != nil {
		return nil, err
	}

	// Pending payouts are a point-in-time figure, not bounded to the period.
	var pending pendingResult
	err = r.db.Table("payouts").
		Select(`
			COUNT(id) as pending_count,
			COALESCE(SUM(total_amount), 0) as pending_amount
		`).
		Where("tenant_id = ?", filter.TenantID).
		Where("status = ?", consignment.PayoutStatusPending).
		Scan(&pending).Error
	if err != nil {
		return nil, err
	}

	return &report.PayoutSummary{
		PeriodStart:   filter.StartDate,
		PeriodEnd:     filter.EndDate,
		PaidCount:     paid.PaidCount,
		TotalPaid:     paid.TotalPaid,
		PendingCount:  pending.PendingCount,
		PendingAmount: pending.PendingAmount,
	}, nil
}

// Ensure GormFinanceReportRepository implements report.FinanceReportRepository
var _ report.FinanceReportRepository = (*GormFinanceReportRepository)(nil)
