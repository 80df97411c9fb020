package inventory

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents a request to list a new item
type CreateItemRequest struct {
	SKU         string          `json:"sku" binding:"required,min=1,max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Category    string          `json:"category" binding:"max=100"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ProviderID  uuid.UUID       `json:"provider_id" binding:"required"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// UpdateItemRequest represents a request to update an item
type UpdateItemRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
}

// ItemListFilter represents filtering options for item lists
type ItemListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	Category   string     `form:"category"`
	ProviderID *uuid.UUID `form:"provider_id"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
	ProviderID  uuid.UUID       `json:"provider_id"`
	PhotoURLs   []string        `json:"photo_urls"`
	ListedAt    time.Time       `json:"listed_at"`
	SoldAt      *time.Time      `json:"sold_at,omitempty"`
	RemovedAt   *time.Time      `json:"removed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToItemResponse converts a domain item to a response
func ToItemResponse(item *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		SKU:         item.SKU,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price,
		Status:      item.Status.String(),
		ProviderID:  item.ProviderID,
		PhotoURLs:   item.PhotoURLs,
		ListedAt:    item.ListedAt,
		SoldAt:      item.SoldAt,
		RemovedAt:   item.RemovedAt,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
		Version:     item.Version,
	}
}

// ToItemResponses converts a slice of domain items to responses
func ToItemResponses(items []inventory.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

// PhotoUploadResponse represents a stored photo
type PhotoUploadResponse struct {
	URL string `json:"url"`
}
