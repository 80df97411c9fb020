package persistence

import (
	"context"
	"errors"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStatementRepository implements StatementRepository using GORM
type GormStatementRepository struct {
	db *gorm.DB
}

// NewGormStatementRepository creates a new GormStatementRepository
func NewGormStatementRepository(db *gorm.DB) *GormStatementRepository {
	return &GormStatementRepository{db: db}
}

// FindByIDForTenant finds a statement by ID within a tenant
func (r *GormStatementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Statement, error) {
	var model models.StatementModel
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

// FindByProviderAndPeriod finds the statement for a provider and month
func (r *GormStatementRepository) FindByProviderAndPeriod(ctx context.Context, tenantID, providerID uuid.UUID, period consignment.StatementPeriod) (*consignment.Statement, error) {
	var model models.StatementModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND provider_id = ? AND year = ? AND month = ?", tenantID, providerID, period.Year, int(period.Month)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProvider finds statements for a provider, newest period first
func (r *GormStatementRepository) FindByProvider(ctx context.Context, tenantID, providerID uuid.UUID, filter shared.Filter) ([]consignment.Statement, error) {
	var stmtModels []models.StatementModel
	query := dbFor(ctx, r.db).Model(&models.StatementModel{}).
		Where("tenant_id = ? AND provider_id = ?", tenantID, providerID).
		Order("year DESC, month DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&stmtModels).Error; err != nil {
		return nil, err
	}
	return toStatementSlice(stmtModels), nil
}

// FindAllForTenant finds statements for a tenant with filtering
func (r *GormStatementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]consignment.Statement, error) {
	var stmtModels []models.StatementModel
	query := r.applyFilter(dbFor(ctx, r.db).Model(&models.StatementModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&stmtModels).Error; err != nil {
		return nil, err
	}
	return toStatementSlice(stmtModels), nil
}

// Save creates or updates a statement
func (r *GormStatementRepository) Save(ctx context.Context, stmt *consignment.Statement) error {
	model := models.StatementModelFromDomain(stmt)
	return dbFor(ctx, r.db).Save(model).Error
}

// Replace deletes any existing statement for the provider and period and
// saves the new one in a single transaction
func (r *GormStatementRepository) Replace(ctx context.Context, stmt *consignment.Statement) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("tenant_id = ? AND provider_id = ? AND year = ? AND month = ? AND id <> ?",
				stmt.TenantID, stmt.ProviderID, stmt.Year, int(stmt.Month), stmt.ID).
			Delete(&models.StatementModel{}).Error; err != nil {
			return err
		}
		return tx.Save(models.StatementModelFromDomain(stmt)).Error
	})
}

// CountForTenant counts statements for a tenant matching the filter
func (r *GormStatementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFor(ctx, r.db).Model(&models.StatementModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStatementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if filter.OrderBy == "" {
		return query.Order("year DESC, month DESC")
	}
	orderBy := ValidateSortField(filter.OrderBy, StatementSortFields, "year")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormStatementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("provider_name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "provider_id":
			query = query.Where("provider_id = ?", value)
		case "year":
			query = query.Where("year = ?", value)
		case "month":
			query = query.Where("month = ?", value)
		}
	}
	return query
}

func toStatementSlice(stmtModels []models.StatementModel) []consignment.Statement {
	stmts := make([]consignment.Statement, len(stmtModels))
	for i := range stmtModels {
		stmts[i] = *stmtModels[i].ToDomain()
	}
	return stmts
}

// Ensure GormStatementRepository implements consignment.StatementRepository
var _ consignment.StatementRepository = (*GormStatementRepository)(nil)
