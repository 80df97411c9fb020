package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayoutRepository implements PayoutRepository using GORM
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// FindByIDForTenant finds a payout by ID within a tenant
func (r *GormPayoutRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Payout, error) {
	var model models.PayoutModel
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

// FindAllForTenant finds payouts for a tenant with filtering
func (r *GormPayoutRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]consignment.Payout, error) {
	var payoutModels []models.PayoutModel
	query := r.applyFilter(dbFor(ctx, r.db).Model(&models.PayoutModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&payoutModels).Error; err != nil {
		return nil, err
	}
	return toPayoutSlice(payoutModels), nil
}

// FindByProvider finds payouts for a provider
func (r *GormPayoutRepository) FindByProvider(ctx context.Context, tenantID, providerID uuid.UUID, filter shared.Filter) ([]consignment.Payout, error) {
	var payoutModels []models.PayoutModel
	query := r.applyFilter(dbFor(ctx, r.db).Model(&models.PayoutModel{}).
		Where("tenant_id = ? AND provider_id = ?", tenantID, providerID), filter)

	if err := query.Find(&payoutModels).Error; err != nil {
		return nil, err
	}
	return toPayoutSlice(payoutModels), nil
}

// FindPaidByProviderInRange finds paid payouts for a provider with paid
// dates in [periodStart, periodEnd)
func (r *GormPayoutRepository) FindPaidByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Payout, error) {
	var payoutModels []models.PayoutModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND provider_id = ? AND status = ?", tenantID, providerID, consignment.PayoutStatusPaid).
		Where("paid_at >= ? AND paid_at < ?", periodStart, periodEnd).
		Order("paid_at ASC").
		Find(&payoutModels).Error; err != nil {
		return nil, err
	}

	payouts := make([]*consignment.Payout, len(payoutModels))
	for i := range payoutModels {
		payouts[i] = payoutModels[i].ToDomain()
	}
	return payouts, nil
}

// Save creates or updates a payout
func (r *GormPayoutRepository) Save(ctx context.Context, payout *consignment.Payout) error {
	model := models.PayoutModelFromDomain(payout)
	return dbFor(ctx, r.db).Save(model).Error
}

// CountForTenant counts payouts for a tenant matching the filter
func (r *GormPayoutRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFor(ctx, r.db).Model(&models.PayoutModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPayoutRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PayoutSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormPayoutRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("provider_name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "provider_id":
			query = query.Where("provider_id = ?", value)
		case "sync_status":
			query = query.Where("sync_status = ?", value)
		}
	}
	return query
}

func toPayoutSlice(payoutModels []models.PayoutModel) []consignment.Payout {
	payouts := make([]consignment.Payout, len(payoutModels))
	for i := range payoutModels {
		payouts[i] = *payoutModels[i].ToDomain()
	}
	return payouts
}

// Ensure GormPayoutRepository implements consignment.PayoutRepository
var _ consignment.PayoutRepository = (*GormPayoutRepository)(nil)
