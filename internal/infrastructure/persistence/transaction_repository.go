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

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByIDForTenant finds a transaction by ID within a tenant
func (r *GormTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Transaction, error) {
	var model models.TransactionModel
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

// FindByIDs finds transactions by ID set within a tenant
func (r *GormTransactionRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*consignment.Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var txModels []models.TransactionModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toTransactionPtrSlice(txModels), nil
}

// FindAllForTenant finds transactions for a tenant with filtering
func (r *GormTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]consignment.Transaction, error) {
	var txModels []models.TransactionModel
	query := r.applyFilter(dbFor(ctx, r.db).Model(&models.TransactionModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}

	txs := make([]consignment.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = *txModels[i].ToDomain()
	}
	return txs, nil
}

// FindUnpaidByProviderInRange finds settleable transactions for a provider
// with sale dates in [periodStart, periodEnd)
func (r *GormTransactionRepository) FindUnpaidByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Transaction, error) {
	var txModels []models.TransactionModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND provider_id = ? AND status = ? AND provider_paid_out = false AND payout_id IS NULL", tenantID, providerID, consignment.TransactionStatusCompleted).
		Where("sale_date >= ? AND sale_date < ?", periodStart, periodEnd).
		Order("sale_date ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toTransactionPtrSlice(txModels), nil
}

// FindByProviderInRange finds completed transactions for a provider with
// sale dates in [periodStart, periodEnd)
func (r *GormTransactionRepository) FindByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Transaction, error) {
	var txModels []models.TransactionModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND provider_id = ? AND status = ?", tenantID, providerID, consignment.TransactionStatusCompleted).
		Where("sale_date >= ? AND sale_date < ?", periodStart, periodEnd).
		Order("sale_date ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toTransactionPtrSlice(txModels), nil
}

// FindInRange finds completed transactions for a tenant with sale dates in
// [periodStart, periodEnd)
func (r *GormTransactionRepository) FindInRange(ctx context.Context, tenantID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Transaction, error) {
	var txModels []models.TransactionModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND status = ?", tenantID, consignment.TransactionStatusCompleted).
		Where("sale_date >= ? AND sale_date < ?", periodStart, periodEnd).
		Order("sale_date ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toTransactionPtrSlice(txModels), nil
}

// FindByPayout finds the transactions stamped with a payout batch
func (r *GormTransactionRepository) FindByPayout(ctx context.Context, tenantID, payoutID uuid.UUID) ([]*consignment.Transaction, error) {
	var txModels []models.TransactionModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND payout_id = ?", tenantID, payoutID).
		Order("sale_date ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toTransactionPtrSlice(txModels), nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *consignment.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	return dbFor(ctx, r.db).Save(model).Error
}

// SaveAll creates or updates a set of transactions atomically
func (r *GormTransactionRepository) SaveAll(ctx context.Context, txs []*consignment.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	txModels := make([]*models.TransactionModel, len(txs))
	for i, tx := range txs {
		txModels[i] = models.TransactionModelFromDomain(tx)
	}
	return dbFor(ctx, r.db).Save(&txModels).Error
}

// CountForTenant counts transactions for a tenant matching the filter
func (r *GormTransactionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFor(ctx, r.db).Model(&models.TransactionModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "sale_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("item_name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "channel":
			query = query.Where("channel = ?", value)
		case "provider_id":
			query = query.Where("provider_id = ?", value)
		case "provider_paid_out":
			query = query.Where("provider_paid_out = ?", value)
		case "unpaid":
			// Unpaid means settleable: neither paid out nor claimed by a
			// pending payout batch.
			if unpaid, ok := value.(bool); ok {
				if unpaid {
					query = query.Where("provider_paid_out = false AND payout_id IS NULL")
				} else {
					query = query.Where("provider_paid_out = true")
				}
			}
		case "sync_status":
			query = query.Where("sync_status = ?", value)
		case "sale_date_from", "date_from":
			query = query.Where("sale_date >= ?", value)
		case "sale_date_to", "date_to":
			query = query.Where("sale_date < ?", value)
		}
	}
	return query
}

func toTransactionPtrSlice(txModels []models.TransactionModel) []*consignment.Transaction {
	txs := make([]*consignment.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = txModels[i].ToDomain()
	}
	return txs
}

// Ensure GormTransactionRepository implements consignment.TransactionRepository
var _ consignment.TransactionRepository = (*GormTransactionRepository)(nil)
