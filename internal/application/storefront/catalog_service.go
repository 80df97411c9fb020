package storefront

import (
	"context"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/identity"
	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreResponse represents the public storefront profile
type StoreResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Currency string          `json:"currency"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
}

// StoreItemResponse represents one listed item on the public storefront
type StoreItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	PhotoURLs []string        `json:"photo_urls"`
	ListedAt  time.Time       `json:"listed_at"`
}

// StoreItemListFilter represents filtering options for the public listing
type StoreItemListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Category string `form:"category"`
}

// CatalogService serves the public storefront: resolving a store by slug and
// listing its available items. Only enabled stores of active organizations
// are reachable.
type CatalogService struct {
	orgRepo  identity.OrganizationRepository
	itemRepo inventory.ItemRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(orgRepo identity.OrganizationRepository, itemRepo inventory.ItemRepository) *CatalogService {
	return &CatalogService{
		orgRepo:  orgRepo,
		itemRepo: itemRepo,
	}
}

// ResolveStore finds an enabled storefront by slug
func (s *CatalogService) ResolveStore(ctx context.Context, slug string) (*StoreResponse, error) {
	org, err := s.orgRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !org.IsActive() || !org.StoreEnabled {
		return nil, shared.ErrNotFound
	}

	return &StoreResponse{
		ID:       org.ID,
		Name:     org.Name,
		Slug:     org.Slug,
		Currency: org.Currency,
		TaxRate:  org.TaxRate,
	}, nil
}

// ListItems lists a store's available items for browsing
func (s *CatalogService) ListItems(ctx context.Context, tenantID uuid.UUID, filter StoreItemListFilter) ([]StoreItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 24
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "listed_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  map[string]interface{}{"status": string(inventory.ItemStatusAvailable)},
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	items, err := s.itemRepo.FindAvailableForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StoreItemResponse, len(items))
	for i := range items {
		item := &items[i]
		responses[i] = StoreItemResponse{
			ID:        item.ID,
			SKU:       item.SKU,
			Name:      item.Name,
			Category:  item.Category,
			Price:     item.Price,
			PhotoURLs: item.PhotoURLs,
			ListedAt:  item.ListedAt,
		}
	}
	return responses, total, nil
}
