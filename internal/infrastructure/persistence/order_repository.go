package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/domain/storefront"
	"github.com/consignmentgenie/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// SetOutboxEventSaver wires transactional outbox persistence. When set, the
// order's pending domain events are written to the outbox in the same
// transaction as the order itself.
func (r *GormOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByIDForTenant finds an order by ID within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*storefront.Order, error) {
	var model models.OrderModel
	if err := dbFor(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order by number within a tenant
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*storefront.Order, error) {
	var model models.OrderModel
	if err := dbFor(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPaymentIntent finds the order carrying a payment intent ID
func (r *GormOrderRepository) FindByPaymentIntent(ctx context.Context, intentID string) (*storefront.Order, error) {
	var model models.OrderModel
	if err := dbFor(ctx, r.db).
		Preload("Items").
		Where("payment_intent_id = ?", intentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds orders for a tenant with filtering
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]storefront.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(dbFor(ctx, r.db).Model(&models.OrderModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Preload("Items").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toOrderSlice(orderModels), nil
}

// FindByShopper finds orders placed by a shopper
func (r *GormOrderRepository) FindByShopper(ctx context.Context, tenantID, shopperID uuid.UUID, filter shared.Filter) ([]storefront.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(dbFor(ctx, r.db).Model(&models.OrderModel{}).
		Where("tenant_id = ? AND shopper_id = ?", tenantID, shopperID), filter)

	if err := query.Preload("Items").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toOrderSlice(orderModels), nil
}

// Save creates or updates an order and its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *storefront.Order) error {
	model := models.OrderModelFromDomain(order)
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		if r.outboxSaver != nil {
			if err := r.outboxSaver.SaveEvents(ctx, tx, order.GetDomainEvents()...); err != nil {
				return err
			}
		}
		return nil
	})
}

// CountForTenant counts orders for a tenant matching the filter
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFor(ctx, r.db).Model(&models.OrderModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateOrderNumber generates a unique order number for a tenant. Numbers
// are date-prefixed with a per-day sequence, e.g. ORD-20260901-0042.
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var count int64
	if err := dbFor(ctx, r.db).Model(&models.OrderModel{}).
		Where("tenant_id = ? AND created_at >= ?", tenantID, dayStart).
		Count(&count).Error; err != nil {
		return "", err
	}

	// The sequence can collide under concurrency, so probe until free.
	for seq := count + 1; ; seq++ {
		number := fmt.Sprintf("ORD-%s-%04d", now.Format("20060102"), seq)
		var existing int64
		if err := dbFor(ctx, r.db).Model(&models.OrderModel{}).
			Where("tenant_id = ? AND order_number = ?", tenantID, number).
			Count(&existing).Error; err != nil {
			return "", err
		}
		if existing == 0 {
			return number, nil
		}
	}
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR customer_email ILIKE ? OR customer_name ILIKE ?", pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "placed_from":
			query = query.Where("created_at >= ?", value)
		case "placed_to":
			query = query.Where("created_at < ?", value)
		}
	}
	return query
}

func toOrderSlice(orderModels []models.OrderModel) []storefront.Order {
	orders := make([]storefront.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements storefront.OrderRepository
var _ storefront.OrderRepository = (*GormOrderRepository)(nil)
