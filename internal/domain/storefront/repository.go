package storefront

import (
	"context"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Common storefront errors
var (
	// ErrItemReserved is returned when an item is already reserved in
	// another cart within the tenant (unique-index violation on add)
	ErrItemReserved = shared.NewDomainError("ITEM_RESERVED", "Item is already in another cart")
)

// CartRepository defines the interface for shopping cart persistence
type CartRepository interface {
	// FindBySession finds the active anonymous cart for a session
	FindBySession(ctx context.Context, tenantID uuid.UUID, sessionID string) (*ShoppingCart, error)

	// FindByShopper finds the active cart for an authenticated shopper
	FindByShopper(ctx context.Context, tenantID, shopperID uuid.UUID) (*ShoppingCart, error)

	// FindCartHoldingItem finds the cart (if any) that reserves an item
	FindCartHoldingItem(ctx context.Context, tenantID, itemID uuid.UUID) (*ShoppingCart, error)

	// Save creates or updates a cart and its lines. Returns ErrItemReserved
	// when inserting a line conflicts with the per-tenant unique index on
	// (tenant_id, item_id).
	Save(ctx context.Context, cart *ShoppingCart) error

	// Delete removes a cart and its lines
	Delete(ctx context.Context, tenantID, cartID uuid.UUID) error

	// DeleteExpiredBefore removes anonymous carts whose expiry passed before
	// the cutoff. Returns the number of carts removed.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByIDForTenant finds an order by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by number within a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)

	// FindByPaymentIntent finds the order carrying a payment intent ID
	FindByPaymentIntent(ctx context.Context, intentID string) (*Order, error)

	// FindAllForTenant finds orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByShopper finds orders placed by a shopper
	FindByShopper(ctx context.Context, tenantID, shopperID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order and its lines
	Save(ctx context.Context, order *Order) error

	// CountForTenant counts orders for a tenant matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateOrderNumber generates a unique order number for a tenant
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
