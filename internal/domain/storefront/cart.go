package storefront

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnonymousCartTTL is how long an anonymous cart lives without checkout.
// Authenticated carts do not expire.
const AnonymousCartTTL = 7 * 24 * time.Hour

// CartItem is a reservation of one consigned item inside a cart. Each item
// can be reserved by at most one cart per tenant; the persistence layer
// enforces this with a unique index on (tenant_id, item_id).
type CartItem struct {
	ID       uuid.UUID
	CartID   uuid.UUID
	ItemID   uuid.UUID
	ItemName string
	Price    decimal.Decimal
	AddedAt  time.Time
}

// ShoppingCart holds reserved items for an anonymous session or an
// authenticated shopper. A cart is keyed by (tenant, session) or
// (tenant, shopper); at most one active cart exists per key.
type ShoppingCart struct {
	shared.TenantAggregateRoot
	SessionID string     // set for anonymous carts
	ShopperID *uuid.UUID // set for authenticated carts
	Items     []CartItem
	ExpiresAt *time.Time // nil for authenticated carts
}

// NewAnonymousCart creates a cart for an anonymous storefront session
func NewAnonymousCart(tenantID uuid.UUID, sessionID string) (*ShoppingCart, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	expires := time.Now().Add(AnonymousCartTTL)
	return &ShoppingCart{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SessionID:           sessionID,
		ExpiresAt:           &expires,
	}, nil
}

// NewShopperCart creates a cart for an authenticated shopper
func NewShopperCart(tenantID, shopperID uuid.UUID) (*ShoppingCart, error) {
	if shopperID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOPPER", "Shopper ID cannot be empty")
	}
	return &ShoppingCart{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ShopperID:           &shopperID,
	}, nil
}

// Contains reports whether the cart already reserves the given item
func (c *ShoppingCart) Contains(itemID uuid.UUID) bool {
	for _, ci := range c.Items {
		if ci.ItemID == itemID {
			return true
		}
	}
	return false
}

// AddItem reserves an item in the cart. Re-adding an item already in this
// cart is a no-op; the cross-cart reservation conflict is enforced by the
// repository's unique index, not here.
func (c *ShoppingCart) AddItem(itemID uuid.UUID, itemName string, price decimal.Decimal) (bool, error) {
	if itemID == uuid.Nil {
		return false, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if c.Contains(itemID) {
		return false, nil
	}
	c.Items = append(c.Items, CartItem{
		ID:       uuid.New(),
		CartID:   c.ID,
		ItemID:   itemID,
		ItemName: itemName,
		Price:    price,
		AddedAt:  time.Now(),
	})
	c.Touch()
	return true, nil
}

// RemoveItem releases an item reservation from the cart
func (c *ShoppingCart) RemoveItem(itemID uuid.UUID) error {
	for idx, ci := range c.Items {
		if ci.ItemID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.Touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// PruneMissing drops cart lines whose item is no longer in the keep set.
// Returns the dropped item IDs.
func (c *ShoppingCart) PruneMissing(keep map[uuid.UUID]bool) []uuid.UUID {
	var dropped []uuid.UUID
	remaining := c.Items[:0]
	for _, ci := range c.Items {
		if keep[ci.ItemID] {
			remaining = append(remaining, ci)
		} else {
			dropped = append(dropped, ci.ItemID)
		}
	}
	c.Items = remaining
	if len(dropped) > 0 {
		c.Touch()
	}
	return dropped
}

// Clear empties the cart after a successful checkout
func (c *ShoppingCart) Clear() {
	c.Items = nil
	c.Touch()
}

// Touch bumps the cart's update timestamp and, for anonymous carts, slides
// the expiry window
func (c *ShoppingCart) Touch() {
	now := time.Now()
	c.UpdatedAt = now
	if c.ShopperID == nil {
		expires := now.Add(AnonymousCartTTL)
		c.ExpiresAt = &expires
	}
}

// IsAnonymous returns true for session-keyed carts
func (c *ShoppingCart) IsAnonymous() bool {
	return c.ShopperID == nil
}

// IsExpired reports whether an anonymous cart has passed its TTL
func (c *ShoppingCart) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Subtotal returns the sum of reserved item prices
func (c *ShoppingCart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, ci := range c.Items {
		total = total.Add(ci.Price)
	}
	return total
}

// MergeFrom unions another cart's reservations into this one, skipping
// duplicates by item ID. Used when an anonymous session logs in.
func (c *ShoppingCart) MergeFrom(other *ShoppingCart) int {
	merged := 0
	for _, ci := range other.Items {
		if c.Contains(ci.ItemID) {
			continue
		}
		c.Items = append(c.Items, CartItem{
			ID:       uuid.New(),
			CartID:   c.ID,
			ItemID:   ci.ItemID,
			ItemName: ci.ItemName,
			Price:    ci.Price,
			AddedAt:  ci.AddedAt,
		})
		merged++
	}
	if merged > 0 {
		c.Touch()
	}
	return merged
}
