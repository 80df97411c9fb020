package consignment

import (
	"context"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProviderService handles provider (consignor) business operations
type ProviderService struct {
	providerRepo consignment.ProviderRepository
	eventBus     shared.EventBus
}

// NewProviderService creates a new ProviderService
func NewProviderService(providerRepo consignment.ProviderRepository, eventBus shared.EventBus) *ProviderService {
	return &ProviderService{
		providerRepo: providerRepo,
		eventBus:     eventBus,
	}
}

// Create creates a new provider. Manual adds start Active; self-registrations
// start Pending and wait for approval.
func (s *ProviderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProviderRequest) (*ProviderResponse, error) {
	exists, err := s.providerRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Provider with this code already exists")
	}

	var provider *consignment.Provider
	if req.SelfRegistered {
		provider, err = consignment.NewPendingProvider(tenantID, req.Code, req.Name, req.CommissionRate)
	} else {
		provider, err = consignment.NewProvider(tenantID, req.Code, req.Name, req.CommissionRate)
	}
	if err != nil {
		return nil, err
	}

	if req.CreatedBy != nil {
		provider.SetCreatedBy(*req.CreatedBy)
	}

	if req.ContactName != "" || req.Email != "" || req.Phone != "" || req.Notes != "" {
		if err := provider.Update(req.Name, req.ContactName, req.Email, req.Phone, req.Notes); err != nil {
			return nil, err
		}
	}

	if req.PaymentPreference != "" {
		if err := provider.SetPaymentPreference(consignment.PaymentPreference(req.PaymentPreference)); err != nil {
			return nil, err
		}
	}

	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, provider)

	response := ToProviderResponse(provider)
	return &response, nil
}

// GetByID retrieves a provider by ID
func (s *ProviderService) GetByID(ctx context.Context, tenantID, providerID uuid.UUID) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, providerID)
	if err != nil {
		return nil, err
	}

	response := ToProviderResponse(provider)
	return &response, nil
}

// List retrieves providers with filtering and pagination
func (s *ProviderService) List(ctx context.Context, tenantID uuid.UUID, filter ProviderListFilter) ([]ProviderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
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

	providers, err := s.providerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.providerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProviderResponses(providers), total, nil
}

// Update updates a provider's profile and settings
func (s *ProviderService) Update(ctx context.Context, tenantID, providerID uuid.UUID, req UpdateProviderRequest) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, providerID)
	if err != nil {
		return nil, err
	}

	name := provider.Name
	if req.Name != nil {
		name = *req.Name
	}
	contactName := provider.ContactName
	if req.ContactName != nil {
		contactName = *req.ContactName
	}
	email := provider.Email
	if req.Email != nil {
		email = *req.Email
	}
	phone := provider.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	notes := provider.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := provider.Update(name, contactName, email, phone, notes); err != nil {
		return nil, err
	}

	// Rate changes only affect future sales: every transaction snapshots
	// the rate at sale time.
	if req.CommissionRate != nil {
		if err := provider.ChangeCommissionRate(*req.CommissionRate); err != nil {
			return nil, err
		}
	}

	if req.PaymentPreference != nil {
		if err := provider.SetPaymentPreference(consignment.PaymentPreference(*req.PaymentPreference)); err != nil {
			return nil, err
		}
	}

	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, provider)

	response := ToProviderResponse(provider)
	return &response, nil
}

// Approve approves a pending self-registered provider
func (s *ProviderService) Approve(ctx context.Context, tenantID, providerID uuid.UUID) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, providerID)
	if err != nil {
		return nil, err
	}

	if err := provider.Approve(); err != nil {
		return nil, err
	}

	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, provider)

	response := ToProviderResponse(provider)
	return &response, nil
}

// Reject rejects a pending self-registered provider
func (s *ProviderService) Reject(ctx context.Context, tenantID, providerID uuid.UUID, reason string) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, providerID)
	if err != nil {
		return nil, err
	}

	if err := provider.Reject(reason); err != nil {
		return nil, err
	}

	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, provider)

	response := ToProviderResponse(provider)
	return &response, nil
}

// Deactivate soft-deactivates a provider. History is preserved; no hard
// deletes.
func (s *ProviderService) Deactivate(ctx context.Context, tenantID, providerID uuid.UUID) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, providerID)
	if err != nil {
		return nil, err
	}

	if err := provider.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}

	response := ToProviderResponse(provider)
	return &response, nil
}

// Reactivate reactivates a deactivated provider
func (s *ProviderService) Reactivate(ctx context.Context, tenantID, providerID uuid.UUID) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, providerID)
	if err != nil {
		return nil, err
	}

	if err := provider.Reactivate(); err != nil {
		return nil, err
	}

	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}

	response := ToProviderResponse(provider)
	return &response, nil
}

func (s *ProviderService) publishEvents(ctx context.Context, provider *consignment.Provider) {
	if s.eventBus == nil {
		return
	}
	for _, event := range provider.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	provider.ClearDomainEvents()
}
