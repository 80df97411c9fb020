package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSummary provides aggregated sales statistics for a period.
// Voided transactions are excluded from every figure.
type SalesSummary struct {
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	TransactionCount int64           `json:"transaction_count"`
	GrossSales       decimal.Decimal `json:"gross_sales"`
	ProviderShare    decimal.Decimal `json:"provider_share"`
	ShopShare        decimal.Decimal `json:"shop_share"`
	AvgSaleValue     decimal.Decimal `json:"avg_sale_value"`
}

// ChannelBreakdown represents sales grouped by channel (POS vs online)
type ChannelBreakdown struct {
	Channel          string          `json:"channel"`
	TransactionCount int64           `json:"transaction_count"`
	GrossSales       decimal.Decimal `json:"gross_sales"`
	ShopShare        decimal.Decimal `json:"shop_share"`
}

// DailySalesTrend represents daily sales trend data
type DailySalesTrend struct {
	Date             time.Time       `json:"date"`
	TransactionCount int64           `json:"transaction_count"`
	GrossSales       decimal.Decimal `json:"gross_sales"`
	ShopShare        decimal.Decimal `json:"shop_share"`
}

// ProviderSalesRanking represents top consignors by sales volume
type ProviderSalesRanking struct {
	Rank             int             `json:"rank"`
	ProviderID       uuid.UUID       `json:"provider_id"`
	ProviderCode     string          `json:"provider_code"`
	ProviderName     string          `json:"provider_name"`
	TransactionCount int64           `json:"transaction_count"`
	GrossSales       decimal.Decimal `json:"gross_sales"`
	ProviderShare    decimal.Decimal `json:"provider_share"`
}

// SalesReportFilter defines filtering options for sales reports
type SalesReportFilter struct {
	TenantID   uuid.UUID  `json:"-"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	ProviderID *uuid.UUID `json:"provider_id,omitempty"`
	Channel    string     `json:"channel,omitempty"`
	TopN       int        `json:"top_n,omitempty"` // For rankings
}

// SalesReportRepository defines the interface for sales report queries
type SalesReportRepository interface {
	// GetSalesSummary returns aggregated sales summary for the period
	GetSalesSummary(filter SalesReportFilter) (*SalesSummary, error)

	// GetChannelBreakdown returns sales grouped by channel
	GetChannelBreakdown(filter SalesReportFilter) ([]ChannelBreakdown, error)

	// GetDailySalesTrend returns daily sales trend data
	GetDailySalesTrend(filter SalesReportFilter) ([]DailySalesTrend, error)

	// GetProviderSalesRanking returns top N providers by sales
	GetProviderSalesRanking(filter SalesReportFilter) ([]ProviderSalesRanking, error)
}
