package identity

import (
	"context"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByIDForTenant finds a user by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email within a tenant
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)

	// FindByProvider finds the user linked to a provider account, if any
	FindByProvider(ctx context.Context, tenantID, providerID uuid.UUID) (*User, error)

	// FindAllForTenant finds users for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// ExistsByEmail checks if an email is already registered within a tenant
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
}

// OrganizationRepository defines the interface for organization persistence
type OrganizationRepository interface {
	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// FindBySlug finds an organization by its storefront slug
	FindBySlug(ctx context.Context, slug string) (*Organization, error)

	// FindActiveIDs returns the IDs of all active organizations
	FindActiveIDs(ctx context.Context) ([]uuid.UUID, error)

	// Save creates or updates an organization
	Save(ctx context.Context, org *Organization) error

	// ExistsBySlug checks if a slug is already taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
