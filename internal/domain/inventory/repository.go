package inventory

import (
	"context"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Common inventory errors
var (
	// ErrItemNotAvailable is returned when an Available -> Sold transition
	// loses the conditional update (the item was sold, removed or reserved
	// by a concurrent writer)
	ErrItemNotAvailable = shared.NewDomainError("ITEM_NOT_AVAILABLE", "Item is no longer available")
)

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByIDForTenant finds an item by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Item, error)

	// FindBySKU finds an item by SKU within a tenant
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Item, error)

	// FindByIDs finds items by ID set within a tenant
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Item, error)

	// FindAllForTenant finds items for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Item, error)

	// FindByProvider finds items consigned by a provider
	FindByProvider(ctx context.Context, tenantID, providerID uuid.UUID, filter shared.Filter) ([]Item, error)

	// FindAvailableForTenant finds available items (storefront listing)
	FindAvailableForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Item, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// MarkSold atomically transitions the item Available -> Sold.
	// Returns ErrItemNotAvailable if the item was not Available at the time
	// of the update (concurrent sale), closing the checkout race.
	MarkSold(ctx context.Context, tenantID, itemID uuid.UUID) error

	// CountForTenant counts items for a tenant matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsBySKU checks if a SKU exists within a tenant
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)
}
