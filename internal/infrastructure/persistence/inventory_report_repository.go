package persistence

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/consignmentgenie/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInventoryReportRepository implements InventoryReportRepository using GORM
type GormInventoryReportRepository struct {
	db *gorm.DB
}

// NewGormInventoryReportRepository creates a new GormInventoryReportRepository
func NewGormInventoryReportRepository(db *gorm.DB) *GormInventoryReportRepository {
	return &GormInventoryReportRepository{db: db}
}

// GetInventorySummary returns aggregated inventory counts and value
func (r *GormInventoryReportRepository) GetInventorySummary(filter report.InventoryReportFilter) (*report.InventorySummary, error) {
	type statusResult struct {
		Status string
		Count  int64
		Value  decimal.Decimal
	}

	var results []statusResult

	query := r.db.Table("items i").
		Select(`
			i.status,
			COUNT(i.id) as count,
			COALESCE(SUM(i.price), 0) as value
		`).
		Where("i.tenant_id = ?", filter.TenantID).
		Group("i.status")

	if filter.ProviderID != nil {
		query = query.Where("i.provider_id = ?", *filter.ProviderID)
	}

	if err := query.Scan(&results).Error; err != nil {
		return nil, err
	}

	summary := &report.InventorySummary{
		TotalListedValue: decimal.Zero,
	}
	for _, row := range results {
		switch inventory.ItemStatus(row.Status) {
		case inventory.ItemStatusAvailable:
			summary.AvailableCount = row.Count
			summary.TotalListedValue = row.Value
		case inventory.ItemStatusSold:
			summary.SoldCount = row.Count
		case inventory.ItemStatusRemoved:
			summary.RemovedCount = row.Count
		}
	}
	return summary, nil
}

// GetInventoryAging returns available items with their listing age, oldest first
func (r *GormInventoryReportRepository) GetInventoryAging(filter report.InventoryReportFilter) ([]report.InventoryAgingItem, error) {
	type agingResult struct {
		ItemID       uuid.UUID
		SKU          string
		Name         string
		ProviderID   uuid.UUID
		ProviderName string
		Price        decimal.Decimal
		ListedAt     time.Time
	}

	var results []agingResult

	query := r.db.Table("items i").
		Select(`
			i.id as item_id,
			i.sku,
			i.name,
			i.provider_id,
			p.name as provider_name,
			i.price,
			i.listed_at
		`).
		Joins("JOIN providers p ON p.id = i.provider_id").
		Where("i.tenant_id = ?", filter.TenantID).
		Where("i.status = ?", inventory.ItemStatusAvailable).
		Order("i.listed_at ASC")

	if filter.ProviderID != nil {
		query = query.Where("i.provider_id = ?", *filter.ProviderID)
	}
	if filter.TopN > 0 {
		query = query.Limit(filter.TopN)
	}

	if err := query.Scan(&results).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	items := make([]report.InventoryAgingItem, 0, len(results))
	for _, row := range results {
		daysListed := int(now.Sub(row.ListedAt).Hours() / 24)
		bucket := report.AgingBucketFor(daysListed)
		if filter.Bucket != "" && filter.Bucket != bucket {
			continue
		}
		items = append(items, report.InventoryAgingItem{
			ItemID:       row.ItemID,
			SKU:          row.SKU,
			Name:         row.Name,
			ProviderID:   row.ProviderID,
			ProviderName: row.ProviderName,
			Price:        row.Price,
			ListedAt:     row.ListedAt,
			DaysListed:   daysListed,
			AgingBucket:  bucket,
		})
	}
	return items, nil
}

// GetInventoryAgingSummary returns available inventory grouped by age bucket
func (r *GormInventoryReportRepository) GetInventoryAgingSummary(filter report.InventoryReportFilter) ([]report.InventoryAgingSummary, error) {
	items, err := r.GetInventoryAging(report.InventoryReportFilter{
		TenantID:   filter.TenantID,
		ProviderID: filter.ProviderID,
	})
	if err != nil {
		return nil, err
	}

	buckets := map[string]*report.InventoryAgingSummary{}
	for _, item := range items {
		bucket, ok := buckets[item.AgingBucket]
		if !ok {
			bucket = &report.InventoryAgingSummary{
				AgingBucket: item.AgingBucket,
				TotalValue:  decimal.Zero,
			}
			buckets[item.AgingBucket] = bucket
		}
		bucket.ItemCount++
		bucket.TotalValue = bucket.TotalValue.Add(item.Price)
	}

	ordered := []string{report.AgingBucket0To30, report.AgingBucket31To60, report.AgingBucket61To90, report.AgingBucket90Plus}
	summaries := make([]report.InventoryAgingSummary, 0, len(buckets))
	for _, label := range ordered {
		if bucket, ok := buckets[label]; ok {
			summaries = append(summaries, *bucket)
		}
	}
	return summaries, nil
}

// Ensure GormInventoryReportRepository implements report.InventoryReportRepository
var _ report.InventoryReportRepository = (*GormInventoryReportRepository)(nil)
