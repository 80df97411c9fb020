package inventory

import (
	"regexp"
	"strings"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStatus represents the lifecycle status of a consigned item
type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "AVAILABLE"
	ItemStatusSold      ItemStatus = "SOLD"
	ItemStatusRemoved   ItemStatus = "REMOVED"
)

// IsValid checks if the status is a valid ItemStatus
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusAvailable, ItemStatusSold, ItemStatusRemoved:
		return true
	}
	return false
}

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ItemStatus) CanTransitionTo(target ItemStatus) bool {
	switch s {
	case ItemStatusAvailable:
		return target == ItemStatusSold || target == ItemStatusRemoved
	case ItemStatusSold:
		// Sold is terminal except an admin void of the sale
		return target == ItemStatusAvailable
	case ItemStatusRemoved:
		return target == ItemStatusAvailable
	}
	return false
}

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{0,49}$`)

// Item is a single consigned good, unique per tenant by SKU, tracked through
// the Available -> Sold/Removed lifecycle. Status transitions drive
// transaction and payout eligibility downstream.
//
// The Available -> Sold transition is raced by concurrent POS sales and
// storefront checkouts; the persistence layer performs it as a conditional
// update so only one writer wins.
type Item struct {
	shared.TenantAggregateRoot
	SKU         string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Status      ItemStatus
	ProviderID  uuid.UUID
	PhotoURLs   []string
	ListedAt    time.Time
	SoldAt      *time.Time
	RemovedAt   *time.Time
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if !skuPattern.MatchString(strings.ToUpper(sku)) {
		return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, digits and hyphens")
	}
	return nil
}

func validateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

// NewItem creates a new available item consigned by a provider
func NewItem(tenantID, providerID uuid.UUID, sku, name string, price decimal.Decimal) (*Item, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if providerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider ID cannot be empty")
	}

	item := &Item{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		Price:               price,
		Status:              ItemStatusAvailable,
		ProviderID:          providerID,
		ListedAt:            time.Now(),
	}

	item.AddDomainEvent(NewItemListedEvent(item))

	return item, nil
}

// Update updates the item's descriptive fields. Price changes are only
// allowed while the item is Available.
func (i *Item) Update(name, description, category string, price decimal.Decimal) error {
	if err := validateItemName(name); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	if !price.Equal(i.Price) && i.Status != ItemStatusAvailable {
		return shared.NewDomainError("INVALID_STATE", "Price can only change while the item is available")
	}
	i.Name = name
	i.Description = description
	i.Category = category
	i.Price = price
	i.UpdatedAt = time.Now()
	return nil
}

// MarkSold transitions the item to Sold. Repositories must guard this with a
// conditional update; this method enforces the state machine for in-memory use.
func (i *Item) MarkSold() error {
	if !i.Status.CanTransitionTo(ItemStatusSold) {
		return ErrItemNotAvailable
	}
	now := time.Now()
	i.Status = ItemStatusSold
	i.SoldAt = &now
	i.UpdatedAt = now
	i.AddDomainEvent(NewItemSoldEvent(i))
	return nil
}

// Remove pulls the item from sale and returns it to the provider
func (i *Item) Remove() error {
	if i.Status != ItemStatusAvailable {
		return shared.NewDomainError("INVALID_STATE", "Only available items can be removed")
	}
	now := time.Now()
	i.Status = ItemStatusRemoved
	i.RemovedAt = &now
	i.UpdatedAt = now
	return nil
}

// Relist makes a removed item available again
func (i *Item) Relist() error {
	if i.Status != ItemStatusRemoved {
		return shared.NewDomainError("INVALID_STATE", "Only removed items can be relisted")
	}
	i.Status = ItemStatusAvailable
	i.RemovedAt = nil
	i.ListedAt = time.Now()
	i.UpdatedAt = i.ListedAt
	return nil
}

// Reopen returns a sold item to Available after its sale was voided
func (i *Item) Reopen() error {
	if i.Status != ItemStatusSold {
		return shared.NewDomainError("INVALID_STATE", "Only sold items can be reopened")
	}
	i.Status = ItemStatusAvailable
	i.SoldAt = nil
	i.UpdatedAt = time.Now()
	return nil
}

// AddPhotoURL records a stored photo for the item
func (i *Item) AddPhotoURL(url string) error {
	if url == "" {
		return shared.NewDomainError("INVALID_PHOTO_URL", "Photo URL cannot be empty")
	}
	for _, existing := range i.PhotoURLs {
		if existing == url {
			return nil
		}
	}
	i.PhotoURLs = append(i.PhotoURLs, url)
	i.UpdatedAt = time.Now()
	return nil
}

// RemovePhotoURL removes a stored photo reference from the item
func (i *Item) RemovePhotoURL(url string) error {
	for idx, existing := range i.PhotoURLs {
		if existing == url {
			i.PhotoURLs = append(i.PhotoURLs[:idx], i.PhotoURLs[idx+1:]...)
			i.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// IsAvailable returns true if the item can be sold or reserved
func (i *Item) IsAvailable() bool {
	return i.Status == ItemStatusAvailable
}

// DaysListed returns how many days the item has been listed as of now
func (i *Item) DaysListed(now time.Time) int {
	return int(now.Sub(i.ListedAt).Hours() / 24)
}
