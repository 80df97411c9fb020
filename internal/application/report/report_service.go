package report

import (
	"context"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/report"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportService provides application-level report operations
type ReportService struct {
	salesRepo     report.SalesReportRepository
	inventoryRepo report.InventoryReportRepository
	financeRepo   report.FinanceReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	salesRepo report.SalesReportRepository,
	inventoryRepo report.InventoryReportRepository,
	financeRepo report.FinanceReportRepository,
) *ReportService {
	return &ReportService{
		salesRepo:     salesRepo,
		inventoryRepo: inventoryRepo,
		financeRepo:   financeRepo,
	}
}

// ===================== Sales Report Operations =====================

// SalesSummaryResponse represents the sales summary response
type SalesSummaryResponse struct {
	PeriodStart      time.Time                  `json:"period_start"`
	PeriodEnd        time.Time                  `json:"period_end"`
	TransactionCount int64                      `json:"transaction_count"`
	GrossSales       float64                    `json:"gross_sales"`
	ProviderShare    float64                    `json:"provider_share"`
	ShopShare        float64                    `json:"shop_share"`
	AvgSaleValue     float64                    `json:"avg_sale_value"`
	ByChannel        []ChannelBreakdownResponse `json:"by_channel"`
}

// ChannelBreakdownResponse represents sales grouped by channel
type ChannelBreakdownResponse struct {
	Channel          string  `json:"channel"`
	TransactionCount int64   `json:"transaction_count"`
	GrossSales       float64 `json:"gross_sales"`
	ShopShare        float64 `json:"shop_share"`
}

// DailySalesTrendResponse represents daily sales trend data
type DailySalesTrendResponse struct {
	Date             time.Time `json:"date"`
	TransactionCount int64     `json:"transaction_count"`
	GrossSales       float64   `json:"gross_sales"`
	ShopShare        float64   `json:"shop_share"`
}

// ProviderSalesRankingResponse represents provider sales ranking
type ProviderSalesRankingResponse struct {
	Rank             int     `json:"rank"`
	ProviderID       string  `json:"provider_id"`
	ProviderCode     string  `json:"provider_code"`
	ProviderName     string  `json:"provider_name"`
	TransactionCount int64   `json:"transaction_count"`
	GrossSales       float64 `json:"gross_sales"`
	ProviderShare    float64 `json:"provider_share"`
}

// SalesReportFilter defines the request filter for sales reports
type SalesReportFilter struct {
	StartDate  time.Time  `form:"start_date" time_format:"2006-01-02" binding:"required"`
	EndDate    time.Time  `form:"end_date" time_format:"2006-01-02" binding:"required"`
	ProviderID *uuid.UUID `form:"provider_id"`
	Channel    string     `form:"channel"`
	TopN       int        `form:"top_n"`
}

func (f SalesReportFilter) toDomain(tenantID uuid.UUID) (report.SalesReportFilter, error) {
	if f.EndDate.Before(f.StartDate) {
		return report.SalesReportFilter{}, shared.NewDomainError("INVALID_PERIOD", "End date must not precede start date")
	}
	return report.SalesReportFilter{
		TenantID:   tenantID,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		ProviderID: f.ProviderID,
		Channel:    f.Channel,
		TopN:       f.TopN,
	}, nil
}

// GetSalesSummary returns the sales summary with channel breakdown
func (s *ReportService) GetSalesSummary(ctx context.Context, tenantID uuid.UUID, filter SalesReportFilter) (*SalesSummaryResponse, error) {
	domainFilter, err := filter.toDomain(tenantID)
	if err != nil {
		return nil, err
	}

	summary, err := s.salesRepo.GetSalesSummary(domainFilter)
	if err != nil {
		return nil, err
	}
	channels, err := s.salesRepo.GetChannelBreakdown(domainFilter)
	if err != nil {
		return nil, err
	}

	byChannel := make([]ChannelBreakdownResponse, len(channels))
	for i, ch := range channels {
		byChannel[i] = ChannelBreakdownResponse{
			Channel:          ch.Channel,
			TransactionCount: ch.TransactionCount,
			GrossSales:       toFloat64(ch.GrossSales),
			ShopShare:        toFloat64(ch.ShopShare),
		}
	}

	return &SalesSummaryResponse{
		PeriodStart:      summary.PeriodStart,
		PeriodEnd:        summary.PeriodEnd,
		TransactionCount: summary.TransactionCount,
		GrossSales:       toFloat64(summary.GrossSales),
		ProviderShare:    toFloat64(summary.ProviderShare),
		ShopShare:        toFloat64(summary.ShopShare),
		AvgSaleValue:     toFloat64(summary.AvgSaleValue),
		ByChannel:        byChannel,
	}, nil
}

// GetDailySalesTrend returns the per-day sales trend
func (s *ReportService) GetDailySalesTrend(ctx context.Context, tenantID uuid.UUID, filter SalesReportFilter) ([]DailySalesTrendResponse, error) {
	domainFilter, err := filter.toDomain(tenantID)
	if err != nil {
		return nil, err
	}

	trend, err := s.salesRepo.GetDailySalesTrend(domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]DailySalesTrendResponse, len(trend))
	for i, day := range trend {
		responses[i] = DailySalesTrendResponse{
			Date:             day.Date,
			TransactionCount: day.TransactionCount,
			GrossSales:       toFloat64(day.GrossSales),
			ShopShare:        toFloat64(day.ShopShare),
		}
	}
	return responses, nil
}

// GetProviderSalesRanking returns top providers by sales volume
func (s *ReportService) GetProviderSalesRanking(ctx context.Context, tenantID uuid.UUID, filter SalesReportFilter) ([]ProviderSalesRankingResponse, error) {
	if filter.TopN <= 0 {
		filter.TopN = 10
	}
	domainFilter, err := filter.toDomain(tenantID)
	if err != nil {
		return nil, err
	}

	ranking, err := s.salesRepo.GetProviderSalesRanking(domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProviderSalesRankingResponse, len(ranking))
	for i, row := range ranking {
		responses[i] = ProviderSalesRankingResponse{
			Rank:             row.Rank,
			ProviderID:       row.ProviderID.String(),
			ProviderCode:     row.ProviderCode,
			ProviderName:     row.ProviderName,
			TransactionCount: row.TransactionCount,
			GrossSales:       toFloat64(row.GrossSales),
			ProviderShare:    toFloat64(row.ProviderShare),
		}
	}
	return responses, nil
}

// ===================== Inventory Report Operations =====================

// InventorySummaryResponse represents aggregated inventory statistics
type InventorySummaryResponse struct {
	AvailableCount   int64   `json:"available_count"`
	SoldCount        int64   `json:"sold_count"`
	RemovedCount     int64   `json:"removed_count"`
	TotalListedValue float64 `json:"total_listed_value"`
}

// InventoryAgingItemResponse represents one aging item
type InventoryAgingItemResponse struct {
	ItemID       string    `json:"item_id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	ProviderID   string    `json:"provider_id"`
	ProviderName string    `json:"provider_name"`
	Price        float64   `json:"price"`
	ListedAt     time.Time `json:"listed_at"`
	DaysListed   int       `json:"days_listed"`
	AgingBucket  string    `json:"aging_bucket"`
}

// InventoryAgingSummaryResponse represents inventory grouped by age bucket
type InventoryAgingSummaryResponse struct {
	AgingBucket string  `json:"aging_bucket"`
	ItemCount   int64   `json:"item_count"`
	TotalValue  float64 `json:"total_value"`
}

// InventoryReportFilter defines the request filter for inventory reports
type InventoryReportFilter struct {
	ProviderID *uuid.UUID `form:"provider_id"`
	Bucket     string     `form:"bucket"`
	TopN       int        `form:"top_n"`
}

func (f InventoryReportFilter) toDomain(tenantID uuid.UUID) report.InventoryReportFilter {
	return report.InventoryReportFilter{
		TenantID:   tenantID,
		ProviderID: f.ProviderID,
		Bucket:     f.Bucket,
		TopN:       f.TopN,
	}
}

// GetInventorySummary returns aggregated inventory counts and value
func (s *ReportService) GetInventorySummary(ctx context.Context, tenantID uuid.UUID, filter InventoryReportFilter) (*InventorySummaryResponse, error) {
	summary, err := s.inventoryRepo.GetInventorySummary(filter.toDomain(tenantID))
	if err != nil {
		return nil, err
	}

	return &InventorySummaryResponse{
		AvailableCount:   summary.AvailableCount,
		SoldCount:        summary.SoldCount,
		RemovedCount:     summary.RemovedCount,
		TotalListedValue: toFloat64(summary.TotalListedValue),
	}, nil
}

// GetInventoryAging returns available items with their listing age
func (s *ReportService) GetInventoryAging(ctx context.Context, tenantID uuid.UUID, filter InventoryReportFilter) ([]InventoryAgingItemResponse, error) {
	items, err := s.inventoryRepo.GetInventoryAging(filter.toDomain(tenantID))
	if err != nil {
		return nil, err
	}

	responses := make([]InventoryAgingItemResponse, len(items))
	for i, item := range items {
		responses[i] = InventoryAgingItemResponse{
			ItemID:       item.ItemID.String(),
			SKU:          item.SKU,
			Name:         item.Name,
			ProviderID:   item.ProviderID.String(),
			ProviderName: item.ProviderName,
			Price:        toFloat64(item.Price),
			ListedAt:     item.ListedAt,
			DaysListed:   item.DaysListed,
			AgingBucket:  item.AgingBucket,
		}
	}
	return responses, nil
}

// GetInventoryAgingSummary returns available inventory grouped by bucket
func (s *ReportService) GetInventoryAgingSummary(ctx context.Context, tenantID uuid.UUID, filter InventoryReportFilter) ([]InventoryAgingSummaryResponse, error) {
	buckets, err := s.inventoryRepo.GetInventoryAgingSummary(filter.toDomain(tenantID))
	if err != nil {
		return nil, err
	}

	responses := make([]InventoryAgingSummaryResponse, len(buckets))
	for i, bucket := range buckets {
		responses[i] = InventoryAgingSummaryResponse{
			AgingBucket: bucket.AgingBucket,
			ItemCount:   bucket.ItemCount,
			TotalValue:  toFloat64(bucket.TotalValue),
		}
	}
	return responses, nil
}

// ===================== Finance Report Operations =====================

// DailyReconciliationResponse represents one day's takings
type DailyReconciliationResponse struct {
	Date          time.Time `json:"date"`
	POSCount      int64     `json:"pos_count"`
	POSGross      float64   `json:"pos_gross"`
	OnlineCount   int64     `json:"online_count"`
	OnlineGross   float64   `json:"online_gross"`
	VoidCount     int64     `json:"void_count"`
	VoidedAmount  float64   `json:"voided_amount"`
	TotalGross    float64   `json:"total_gross"`
	ProviderShare float64   `json:"provider_share"`
	ShopShare     float64   `json:"shop_share"`
}

// ProviderBalanceResponse represents an outstanding provider balance
type ProviderBalanceResponse struct {
	ProviderID   string  `json:"provider_id"`
	ProviderCode string  `json:"provider_code"`
	ProviderName string  `json:"provider_name"`
	UnpaidCount  int64   `json:"unpaid_count"`
	UnpaidAmount float64 `json:"unpaid_amount"`
}

// PayoutSummaryResponse represents aggregated payout statistics
type PayoutSummaryResponse struct {
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
	PaidCount     int64     `json:"paid_count"`
	TotalPaid     float64   `json:"total_paid"`
	PendingCount  int64     `json:"pending_count"`
	PendingAmount float64   `json:"pending_amount"`
}

// FinanceReportFilter defines the request filter for finance reports
type FinanceReportFilter struct {
	StartDate time.Time `form:"start_date" time_format:"2006-01-02" binding:"required"`
	EndDate   time.Time `form:"end_date" time_format:"2006-01-02" binding:"required"`
}

func (f FinanceReportFilter) toDomain(tenantID uuid.UUID) (report.FinanceReportFilter, error) {
	if f.EndDate.Before(f.StartDate) {
		return report.FinanceReportFilter{}, shared.NewDomainError("INVALID_PERIOD", "End date must not precede start date")
	}
	return report.FinanceReportFilter{
		TenantID:  tenantID,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
	}, nil
}

// GetDailyReconciliation returns per-day takings split by channel
func (s *ReportService) GetDailyReconciliation(ctx context.Context, tenantID uuid.UUID, filter FinanceReportFilter) ([]DailyReconciliationResponse, error) {
	domainFilter, err := filter.toDomain(tenantID)
	if err != nil {
		return nil, err
	}

	days, err := s.financeRepo.GetDailyReconciliation(domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]DailyReconciliationResponse, len(days))
	for i, day := range days {
		responses[i] = DailyReconciliationResponse{
			Date:          day.Date,
			POSCount:      day.POSCount,
			POSGross:      toFloat64(day.POSGross),
			OnlineCount:   day.OnlineCount,
			OnlineGross:   toFloat64(day.OnlineGross),
			VoidCount:     day.VoidCount,
			VoidedAmount:  toFloat64(day.VoidedAmount),
			TotalGross:    toFloat64(day.TotalGross),
			ProviderShare: toFloat64(day.ProviderShare),
			ShopShare:     toFloat64(day.ShopShare),
		}
	}
	return responses, nil
}

// GetProviderBalances returns outstanding amounts owed per provider
func (s *ReportService) GetProviderBalances(ctx context.Context, tenantID uuid.UUID) ([]ProviderBalanceResponse, error) {
	balances, err := s.financeRepo.GetProviderBalances(tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]ProviderBalanceResponse, len(balances))
	for i, balance := range balances {
		responses[i] = ProviderBalanceResponse{
			ProviderID:   balance.ProviderID.String(),
			ProviderCode: balance.ProviderCode,
			ProviderName: balance.ProviderName,
			UnpaidCount:  balance.UnpaidCount,
			UnpaidAmount: toFloat64(balance.UnpaidAmount),
		}
	}
	return responses, nil
}

// GetPayoutSummary returns aggregated payout statistics for a period
func (s *ReportService) GetPayoutSummary(ctx context.Context, tenantID uuid.UUID, filter FinanceReportFilter) (*PayoutSummaryResponse, error) {
	domainFilter, err := filter.toDomain(tenantID)
	if err != nil {
		return nil, err
	}

	summary, err := s.financeRepo.GetPayoutSummary(domainFilter)
	if err != nil {
		return nil, err
	}

	return &PayoutSummaryResponse{
		PeriodStart:   summary.PeriodStart,
		PeriodEnd:     summary.PeriodEnd,
		PaidCount:     summary.PaidCount,
		TotalPaid:     toFloat64(summary.TotalPaid),
		PendingCount:  summary.PendingCount,
		PendingAmount: toFloat64(summary.PendingAmount),
	}, nil
}

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
