package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aging buckets by days listed
const (
	AgingBucket0To30  = "0-30"
	AgingBucket31To60 = "31-60"
	AgingBucket61To90 = "61-90"
	AgingBucket90Plus = "90+"
)

// AgingBucketFor returns the bucket label for a listing age in days
func AgingBucketFor(daysListed int) string {
	switch {
	case daysListed <= 30:
		return AgingBucket0To30
	case daysListed <= 60:
		return AgingBucket31To60
	case daysListed <= 90:
		return AgingBucket61To90
	default:
		return AgingBucket90Plus
	}
}

// InventorySummary provides aggregated inventory statistics
type InventorySummary struct {
	AvailableCount   int64           `json:"available_count"`
	SoldCount        int64           `json:"sold_count"`
	RemovedCount     int64           `json:"removed_count"`
	TotalListedValue decimal.Decimal `json:"total_listed_value"` // sum of available item prices
}

// InventoryAgingItem represents one available item with its listing age
type InventoryAgingItem struct {
	ItemID       uuid.UUID       `json:"item_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	ProviderID   uuid.UUID       `json:"provider_id"`
	ProviderName string          `json:"provider_name"`
	Price        decimal.Decimal `json:"price"`
	ListedAt     time.Time       `json:"listed_at"`
	DaysListed   int             `json:"days_listed"`
	AgingBucket  string          `json:"aging_bucket"`
}

// InventoryAgingSummary represents available inventory grouped by age bucket
type InventoryAgingSummary struct {
	AgingBucket string          `json:"aging_bucket"`
	ItemCount   int64           `json:"item_count"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// InventoryReportFilter defines filtering options for inventory reports
type InventoryReportFilter struct {
	TenantID   uuid.UUID  `json:"-"`
	ProviderID *uuid.UUID `json:"provider_id,omitempty"`
	Bucket     string     `json:"bucket,omitempty"`
	TopN       int        `json:"top_n,omitempty"`
}

// InventoryReportRepository defines the interface for inventory report queries
type InventoryReportRepository interface {
	// GetInventorySummary returns aggregated inventory counts and value
	GetInventorySummary(filter InventoryReportFilter) (*InventorySummary, error)

	// GetInventoryAging returns available items with their listing age,
	// oldest first
	GetInventoryAging(filter InventoryReportFilter) ([]InventoryAgingItem, error)

	// GetInventoryAgingSummary returns available inventory grouped by bucket
	GetInventoryAgingSummary(filter InventoryReportFilter) ([]InventoryAgingSummary, error)
}
