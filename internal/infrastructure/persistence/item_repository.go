package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByIDForTenant finds an item by ID within a tenant
func (r *GormItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Item, error) {
	var model models.ItemModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySKU finds an item by SKU within a tenant
func (r *GormItemRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*inventory.Item, error) {
	var model models.ItemModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND sku = ?", tenantID, strings.ToUpper(sku)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds items by ID set within a tenant
func (r *GormItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*inventory.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var itemModels []models.ItemModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]*inventory.Item, len(itemModels))
	for i := range itemModels {
		items[i] = itemModels[i].ToDomain()
	}
	return items, nil
}

// FindAllForTenant finds items for a tenant with filtering
func (r *GormItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	var itemModels []models.ItemModel
	query := r.applyFilter(dbFor(ctx, r.db).Model(&models.ItemModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toItemSlice(itemModels), nil
}

// FindByProvider finds items consigned by a provider
func (r *GormItemRepository) FindByProvider(ctx context.Context, tenantID, providerID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	var itemModels []models.ItemModel
	query := r.applyFilter(dbFor(ctx, r.db).Model(&models.ItemModel{}).
		Where("tenant_id = ? AND provider_id = ?", tenantID, providerID), filter)

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toItemSlice(itemModels), nil
}

// FindAvailableForTenant finds available items for storefront listing
func (r *GormItemRepository) FindAvailableForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	var itemModels []models.ItemModel
	query := r.applyFilter(dbFor(ctx, r.db).Model(&models.ItemModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, inventory.ItemStatusAvailable), filter)

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toItemSlice(itemModels), nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	model := models.ItemModelFromDomain(item)
	return dbFor(ctx, r.db).Save(model).Error
}

// MarkSold atomically transitions the item Available -> Sold. The conditional
// update closes the race between two concurrent sales of the same item:
// whichever writer commits first wins, the loser sees zero affected rows.
func (r *GormItemRepository) MarkSold(ctx context.Context, tenantID, itemID uuid.UUID) error {
	now := time.Now()
	result := dbFor(ctx, r.db).Model(&models.ItemModel{}).
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, itemID, inventory.ItemStatusAvailable).
		Updates(map[string]interface{}{
			"status":     inventory.ItemStatusSold,
			"sold_at":    now,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return inventory.ErrItemNotAvailable
	}
	return nil
}

// CountForTenant counts items for a tenant matching the filter
func (r *GormItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFor(ctx, r.db).Model(&models.ItemModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySKU checks if a SKU exists within a tenant
func (r *GormItemRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.ItemModel{}).
		Where("tenant_id = ? AND sku = ?", tenantID, strings.ToUpper(sku)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ItemSortFields, "listed_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ? OR description ILIKE ?", pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "provider_id":
			query = query.Where("provider_id = ?", value)
		case "price_min":
			query = query.Where("price >= ?", value)
		case "price_max":
			query = query.Where("price <= ?", value)
		}
	}
	return query
}

func toItemSlice(itemModels []models.ItemModel) []inventory.Item {
	items := make([]inventory.Item, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items
}

// Ensure GormItemRepository implements inventory.ItemRepository
var _ inventory.ItemRepository = (*GormItemRepository)(nil)
