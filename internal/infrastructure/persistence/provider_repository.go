package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProviderRepository implements ProviderRepository using GORM
type GormProviderRepository struct {
	db *gorm.DB
}

// NewGormProviderRepository creates a new GormProviderRepository
func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

// FindByIDForTenant finds a provider by ID within a tenant
func (r *GormProviderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Provider, error) {
	var model models.ProviderModel
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

// FindByCode finds a provider by its code within a tenant
func (r *GormProviderRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*consignment.Provider, error) {
	var model models.ProviderModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds providers for a tenant with filtering
func (r *GormProviderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]consignment.Provider, error) {
	var providerModels []models.ProviderModel
	query := r.applyFilter(dbFor(ctx, r.db).Model(&models.ProviderModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&providerModels).Error; err != nil {
		return nil, err
	}
	return toProviderSlice(providerModels), nil
}

// FindByStatus finds providers with a given status for a tenant
func (r *GormProviderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status consignment.ProviderStatus) ([]consignment.Provider, error) {
	var providerModels []models.ProviderModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Order("code ASC").
		Find(&providerModels).Error; err != nil {
		return nil, err
	}
	return toProviderSlice(providerModels), nil
}

// Save creates or updates a provider
func (r *GormProviderRepository) Save(ctx context.Context, provider *consignment.Provider) error {
	model := models.ProviderModelFromDomain(provider)
	return dbFor(ctx, r.db).Save(model).Error
}

// CountForTenant counts providers for a tenant matching the filter
func (r *GormProviderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFor(ctx, r.db).Model(&models.ProviderModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a provider code exists within a tenant
func (r *GormProviderRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.ProviderModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsActive checks if a provider exists and is currently active
func (r *GormProviderRepository) ExistsActive(ctx context.Context, tenantID, providerID uuid.UUID) (bool, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.ProviderModel{}).
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, providerID, consignment.ProviderStatusActive).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormProviderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProviderSortFields, "code")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormProviderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_preference":
			query = query.Where("payment_preference = ?", value)
		}
	}
	return query
}

func toProviderSlice(providerModels []models.ProviderModel) []consignment.Provider {
	providers := make([]consignment.Provider, len(providerModels))
	for i := range providerModels {
		providers[i] = *providerModels[i].ToDomain()
	}
	return providers
}

// Ensure GormProviderRepository implements consignment.ProviderRepository
var _ consignment.ProviderRepository = (*GormProviderRepository)(nil)
