package inventory

import (
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeItem = "Item"

// Event type constants
const (
	EventTypeItemListed = "ItemListed"
	EventTypeItemSold   = "ItemSold"
)

// ItemListedEvent is published when a new item is listed for sale
type ItemListedEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID       `json:"item_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ProviderID uuid.UUID       `json:"provider_id"`
}

// NewItemListedEvent creates a new ItemListedEvent
func NewItemListedEvent(item *Item) *ItemListedEvent {
	return &ItemListedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemListed, AggregateTypeItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		SKU:             item.SKU,
		Name:            item.Name,
		Price:           item.Price,
		ProviderID:      item.ProviderID,
	}
}

// ItemSoldEvent is published when an item transitions to Sold
type ItemSoldEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID       `json:"item_id"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	ProviderID uuid.UUID       `json:"provider_id"`
}

// NewItemSoldEvent creates a new ItemSoldEvent
func NewItemSoldEvent(item *Item) *ItemSoldEvent {
	return &ItemSoldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemSold, AggregateTypeItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		SKU:             item.SKU,
		Price:           item.Price,
		ProviderID:      item.ProviderID,
	}
}
