package identity

import (
	"context"

	"github.com/consignmentgenie/backend/internal/domain/identity"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrganizationService handles shop signup and settings
type OrganizationService struct {
	orgRepo   identity.OrganizationRepository
	userRepo  identity.UserRepository
	txManager shared.TransactionManager
	eventBus  shared.EventBus
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(
	orgRepo identity.OrganizationRepository,
	userRepo identity.UserRepository,
	txManager shared.TransactionManager,
	eventBus shared.EventBus,
) *OrganizationService {
	return &OrganizationService{
		orgRepo:   orgRepo,
		userRepo:  userRepo,
		txManager: txManager,
		eventBus:  eventBus,
	}
}

// Register creates a new organization together with its owner account
func (s *OrganizationService) Register(ctx context.Context, req RegisterOrganizationRequest) (*OrganizationResponse, error) {
	taken, err := s.orgRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("SLUG_TAKEN", "This shop URL is already in use")
	}

	org, err := identity.NewOrganization(req.Name, req.Slug, req.ContactEmail)
	if err != nil {
		return nil, err
	}

	owner, err := identity.NewUser(org.ID, req.OwnerEmail, req.Password, req.OwnerName, identity.RoleOwner)
	if err != nil {
		return nil, err
	}

	err = s.txManager.Execute(ctx, func(ctx context.Context) error {
		if err := s.orgRepo.Save(ctx, org); err != nil {
			return err
		}
		return s.userRepo.Save(ctx, owner)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("organization registered",
		zap.String("org_id", org.ID.String()),
		zap.String("slug", org.Slug))

	s.publishEvents(ctx, owner)

	response := ToOrganizationResponse(org)
	return &response, nil
}

// GetByID retrieves an organization
func (s *OrganizationService) GetByID(ctx context.Context, orgID uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	response := ToOrganizationResponse(org)
	return &response, nil
}

// Update applies settings changes to an organization
func (s *OrganizationService) Update(ctx context.Context, orgID uuid.UUID, req UpdateOrganizationRequest) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	name := org.Name
	if req.Name != nil {
		name = *req.Name
	}
	contactEmail := org.ContactEmail
	if req.ContactEmail != nil {
		contactEmail = *req.ContactEmail
	}
	phone := org.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	address := org.Address
	if req.Address != nil {
		address = *req.Address
	}
	if err := org.Update(name, contactEmail, phone, address); err != nil {
		return nil, err
	}

	if req.TaxRate != nil {
		if err := org.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.StoreEnabled != nil {
		if *req.StoreEnabled {
			org.EnableStore()
		} else {
			org.DisableStore()
		}
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	response := ToOrganizationResponse(org)
	return &response, nil
}

func (s *OrganizationService) publishEvents(ctx context.Context, aggregate interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}) {
	if s.eventBus == nil {
		return
	}
	for _, event := range aggregate.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	aggregate.ClearDomainEvents()
}
