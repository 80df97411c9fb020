package inventory

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedPhotoTypes lists the content types accepted for item photos
var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// PhotoStorage defines the interface for item photo blob storage.
// Implemented by the infrastructure layer (S3 or a local/noop store in dev).
type PhotoStorage interface {
	// Upload stores a blob under the given key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// DeleteObject removes a blob
	DeleteObject(ctx context.Context, storageKey string) error

	// PublicURL returns the browsable URL for a stored key
	PublicURL(storageKey string) string

	// StorageKey extracts the storage key from a public URL
	StorageKey(url string) (string, error)
}

// ItemService handles item business operations
type ItemService struct {
	itemRepo     inventory.ItemRepository
	providerRepo ProviderChecker
	photoStorage PhotoStorage
	eventBus     shared.EventBus
}

// ProviderChecker verifies that an item's provider exists and can consign.
// Satisfied by the consignment provider repository.
type ProviderChecker interface {
	ExistsActive(ctx context.Context, tenantID, providerID uuid.UUID) (bool, error)
}

// NewItemService creates a new ItemService
func NewItemService(
	itemRepo inventory.ItemRepository,
	providerRepo ProviderChecker,
	photoStorage PhotoStorage,
	eventBus shared.EventBus,
) *ItemService {
	return &ItemService{
		itemRepo:     itemRepo,
		providerRepo: providerRepo,
		photoStorage: photoStorage,
		eventBus:     eventBus,
	}
}

// Create lists a new item for a provider
func (s *ItemService) Create(ctx context.Context, tenantID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	exists, err := s.itemRepo.ExistsBySKU(ctx, tenantID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Item with this SKU already exists")
	}

	active, err := s.providerRepo.ExistsActive(ctx, tenantID, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider not found or not active")
	}

	item, err := inventory.NewItem(tenantID, req.ProviderID, req.SKU, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		item.SetCreatedBy(*req.CreatedBy)
	}
	if req.Description != "" || req.Category != "" {
		if err := item.Update(req.Name, req.Description, req.Category, req.Price); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// GetByID retrieves an item by ID
func (s *ItemService) GetByID(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// GetBySKU retrieves an item by SKU
func (s *ItemService) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// List retrieves items with filtering and pagination
func (s *ItemService) List(ctx context.Context, tenantID uuid.UUID, filter ItemListFilter) ([]ItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "listed_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.ProviderID != nil {
		domainFilter.Filters["provider_id"] = *filter.ProviderID
	}

	items, err := s.itemRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.itemRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToItemResponses(items), total, nil
}

// Update updates an item's details. Price changes are only allowed while
// the item is Available.
func (s *ItemService) Update(ctx context.Context, tenantID, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	name := item.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := item.Description
	if req.Description != nil {
		description = *req.Description
	}
	category := item.Category
	if req.Category != nil {
		category = *req.Category
	}
	price := item.Price
	if req.Price != nil {
		price = *req.Price
	}
	if err := item.Update(name, description, category, price); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// Remove pulls an item from sale (return to provider)
func (s *ItemService) Remove(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.Remove(); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// Relist puts a removed item back on sale
func (s *ItemService) Relist(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.Relist(); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// AddPhoto stores a photo blob and records its URL on the item
func (s *ItemService) AddPhoto(ctx context.Context, tenantID, itemID uuid.UUID, data []byte, contentType string) (*PhotoUploadResponse, error) {
	ext, ok := allowedPhotoTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, shared.NewDomainError("INVALID_PHOTO_TYPE", "Photo must be JPEG, PNG or WebP")
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("INVALID_PHOTO", "Photo data cannot be empty")
	}

	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	storageKey := path.Join(tenantID.String(), "items", item.ID.String(), fmt.Sprintf("%s%s", uuid.New().String(), ext))
	if err := s.photoStorage.Upload(ctx, storageKey, data, contentType); err != nil {
		return nil, err
	}

	url := s.photoStorage.PublicURL(storageKey)
	if err := item.AddPhotoURL(url); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	return &PhotoUploadResponse{URL: url}, nil
}

// RemovePhoto removes a photo URL from the item and deletes the blob
// best-effort
func (s *ItemService) RemovePhoto(ctx context.Context, tenantID, itemID uuid.UUID, url string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.RemovePhotoURL(url); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	if storageKey, err := s.photoStorage.StorageKey(url); err == nil {
		if err := s.photoStorage.DeleteObject(ctx, storageKey); err != nil {
			logger.L(ctx).Warn("failed to delete photo blob",
				zap.String("item_id", itemID.String()),
				zap.String("storage_key", storageKey),
				zap.Error(err))
		}
	}

	response := ToItemResponse(item)
	return &response, nil
}

func (s *ItemService) publishEvents(ctx context.Context, item *inventory.Item) {
	if s.eventBus == nil {
		return
	}
	for _, event := range item.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	item.ClearDomainEvents()
}
