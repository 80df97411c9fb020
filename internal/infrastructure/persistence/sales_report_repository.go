package persistence

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSalesReportRepository implements SalesReportRepository using GORM
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// GetSalesSummary returns aggregated sales summary for the period
func (r *GormSalesReportRepository) GetSalesSummary(filter report.SalesReportFilter) (*report.SalesSummary, error) {
	type summaryResult struct {
		TransactionCount int64
		GrossSales       decimal.Decimal
		ProviderShare    decimal.Decimal
		ShopShare        decimal.Decimal
	}

	var result summaryResult

	query := r.salesQuery(filter).
		Select(`
			COUNT(t.id) as transaction_count,
			COALESCE(SUM(t.sale_price), 0) as gross_sales,
			COALESCE(SUM(t.provider_amount), 0) as provider_share,
			COALESCE(SUM(t.shop_amount), 0) as shop_share
		`)

	if err := query.Scan(&result).Error; err != nil {
		return nil, err
	}

	var avgSaleValue decimal.Decimal
	if result.TransactionCount > 0 {
		avgSaleValue = result.GrossSales.Div(decimal.NewFromInt(result.TransactionCount)).Round(2)
	}

	return &report.SalesSummary{
		PeriodStart:      filter.StartDate,
		PeriodEnd:        filter.EndDate,
		TransactionCount: result.TransactionCount,
		GrossSales:       result.GrossSales,
		ProviderShare:    result.ProviderShare,
		ShopShare:        result.ShopShare,
		AvgSaleValue:     avgSaleValue,
	}, nil
}

// GetChannelBreakdown returns sales grouped by channel
func (r *GormSalesReportRepository) GetChannelBreakdown(filter report.SalesReportFilter) ([]report.ChannelBreakdown, error) {
	type channelResult struct {
		Channel          string
		TransactionCount int64
		GrossSales       decimal.Decimal
		ShopShare        decimal.Decimal
	}

	var results []channelResult

	err := r.salesQuery(filter).
		Select(`
			t.channel,
			COUNT(t.id) as transaction_count,
			COALESCE(SUM(t.sale_price), 0) as gross_sales,
			COALESCE(SUM(t.shop_amount), 0) as shop_share
		`).
		Group("t.channel").
		Order("gross_sales DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	breakdowns := make([]report.ChannelBreakdown, len(results))
	for i, row := range results {
		breakdowns[i] = report.ChannelBreakdown{
			Channel:          row.Channel,
			TransactionCount: row.TransactionCount,
			GrossSales:       row.GrossSales,
			ShopShare:        row.ShopShare,
		}
	}
	return breakdowns, nil
}

// GetDailySalesTrend returns daily sales trend data
func (r *GormSalesReportRepository) GetDailySalesTrend(filter report.SalesReportFilter) ([]report.DailySalesTrend, error) {
	type dailyResult struct {
		Date             time.Time
		TransactionCount int64
		GrossSales       decimal.Decimal
		ShopShare        decimal.Decimal
	}

	var results []dailyResult

	err := r.salesQuery(filter).
		Select(`
			DATE(t.sale_date) as date,
			COUNT(t.id) as transaction_count,
			COALESCE(SUM(t.sale_price), 0) as gross_sales,
			COALESCE(SUM(t.shop_amount), 0) as shop_share
		`).
		Group("DATE(t.sale_date)").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	trends := make([]report.DailySalesTrend, len(results))
	for i, row := range results {
		trends[i] = report.DailySalesTrend{
			Date:             row.Date,
			TransactionCount: row.TransactionCount,
			GrossSales:       row.GrossSales,
			ShopShare:        row.ShopShare,
		}
	}
	return trends, nil
}

// GetProviderSalesRanking returns top N providers by sales
func (r *GormSalesReportRepository) GetProviderSalesRanking(filter report.SalesReportFilter) ([]report.ProviderSalesRanking, error) {
	type rankingResult struct {
		ProviderID       uuid.UUID
		ProviderCode     string
		ProviderName     string
		TransactionCount int64
		GrossSales       decimal.Decimal
		ProviderShare    decimal.Decimal
	}

	var results []rankingResult

	topN := filter.TopN
	if topN <= 0 {
		topN = 10
	}

	err := r.salesQuery(filter).
		Select(`
			t.provider_id,
			p.code as provider_code,
			p.name as provider_name,
			COUNT(t.id) as transaction_count,
			COALESCE(SUM(t.sale_price), 0) as gross_sales,
			COALESCE(SUM(t.provider_amount), 0) as provider_share
		`).
		Joins("JOIN providers p ON p.id = t.provider_id").
		Group("t.provider_id, p.code, p.name").
		Order("gross_sales DESC").
		Limit(topN).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	rankings := make([]report.ProviderSalesRanking, len(results))
	for i, row := range results {
		rankings[i] = report.ProviderSalesRanking{
			Rank:             i + 1,
			ProviderID:       row.ProviderID,
			ProviderCode:     row.ProviderCode,
			ProviderName:     row.ProviderName,
			TransactionCount: row.TransactionCount,
			GrossSales:       row.GrossSales,
			ProviderShare:    row.ProviderShare,
		}
	}
	return rankings, nil
}

// salesQuery builds the completed-transactions base query for the period
func (r *GormSalesReportRepository) salesQuery(filter report.SalesReportFilter) *gorm.DB {
	query := r.db.Table("transactions t").
		Where("t.tenant_id = ?", filter.TenantID).
		Where("t.sale_date >= ? AND t.sale_date < ?", filter.StartDate, filter.EndDate).
		Where("t.status = ?", consignment.TransactionStatusCompleted)

	if filter.ProviderID != nil {
		query = query.Where("t.provider_id = ?", *filter.ProviderID)
	}
	if filter.Channel != "" {
		query = query.Where("t.channel = ?", filter.Channel)
	}
	return query
}

// Ensure GormSalesReportRepository implements report.SalesReportRepository
var _ report.SalesReportRepository = (*GormSalesReportRepository)(nil)
