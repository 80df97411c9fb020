package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/domain/storefront"
	"github.com/consignmentgenie/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindBySession finds the active anonymous cart for a session
func (r *GormCartRepository) FindBySession(ctx context.Context, tenantID uuid.UUID, sessionID string) (*storefront.ShoppingCart, error) {
	var model models.CartModel
	if err := dbFor(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByShopper finds the active cart for an authenticated shopper
func (r *GormCartRepository) FindByShopper(ctx context.Context, tenantID, shopperID uuid.UUID) (*storefront.ShoppingCart, error) {
	var model models.CartModel
	if err := dbFor(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND shopper_id = ?", tenantID, shopperID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindCartHoldingItem finds the cart (if any) that reserves an item
func (r *GormCartRepository) FindCartHoldingItem(ctx context.Context, tenantID, itemID uuid.UUID) (*storefront.ShoppingCart, error) {
	var line models.CartItemModel
	if err := dbFor(ctx, r.db).
		Where("tenant_id = ? AND item_id = ?", tenantID, itemID).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var model models.CartModel
	if err := dbFor(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, line.CartID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a cart and its lines. Lines removed from the
// aggregate are deleted, new lines are inserted. An insert that collides
// with the per-tenant (tenant_id, item_id) unique index means another cart
// reserved the item first.
func (r *GormCartRepository) Save(ctx context.Context, cart *storefront.ShoppingCart) error {
	model := models.CartModelFromDomain(cart)
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(model.Items))
		for i, line := range model.Items {
			keep[i] = line.ID
		}
		stale := tx.Where("cart_id = ?", model.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}

		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return storefront.ErrItemReserved
				}
				return err
			}
		}
		return nil
	})
}

// Delete removes a cart and its lines
func (r *GormCartRepository) Delete(ctx context.Context, tenantID, cartID uuid.UUID) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		return tx.Where("tenant_id = ? AND id = ?", tenantID, cartID).Delete(&models.CartModel{}).Error
	})
}

// DeleteExpiredBefore removes anonymous carts whose expiry passed before the
// cutoff. Returns the number of carts removed.
func (r *GormCartRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&models.CartModel{}).
			Where("expires_at IS NOT NULL AND expires_at < ?", cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("cart_id IN ?", ids).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.CartModel{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	return removed, err
}

// Ensure GormCartRepository implements storefront.CartRepository
var _ storefront.CartRepository = (*GormCartRepository)(nil)
