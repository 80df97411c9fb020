package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/consignmentgenie/backend/internal/domain/shared"
)

// OrganizationStatus represents the status of an organization
type OrganizationStatus string

const (
	OrganizationStatusActive    OrganizationStatus = "active"
	OrganizationStatusSuspended OrganizationStatus = "suspended"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}[a-z0-9]$`)

// Organization is a consignment shop using the platform: the tenant and
// top-level isolation boundary. Every tenant-scoped aggregate carries its ID.
type Organization struct {
	shared.BaseAggregateRoot
	Name         string
	Slug         string // storefront URL key, unique across the platform
	ContactEmail string
	Phone        string
	Address      string
	Status       OrganizationStatus
	// Storefront checkout settings
	TaxRate      decimal.Decimal // percent, 0-100
	Currency     string
	StoreEnabled bool
}

// NewOrganization creates a new active organization
func NewOrganization(name, slug, contactEmail string) (*Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION_NAME", "Organization name cannot be empty")
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	if err := validateEmail(contactEmail); err != nil {
		return nil, err
	}

	return &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              strings.ToLower(slug),
		ContactEmail:      strings.ToLower(strings.TrimSpace(contactEmail)),
		Status:            OrganizationStatusActive,
		Currency:          "USD",
	}, nil
}

// ValidateSlug checks that a storefront slug is well-formed
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(strings.ToLower(slug)) {
		return shared.NewDomainError("INVALID_SLUG", "Slug must be 3-64 lowercase letters, digits or hyphens")
	}
	return nil
}

// Update updates the organization's profile
func (o *Organization) Update(name, contactEmail, phone, address string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_ORGANIZATION_NAME", "Organization name cannot be empty")
	}
	if err := validateEmail(contactEmail); err != nil {
		return err
	}
	o.Name = name
	o.ContactEmail = strings.ToLower(strings.TrimSpace(contactEmail))
	o.Phone = phone
	o.Address = address
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetTaxRate sets the storefront tax rate
func (o *Organization) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	o.TaxRate = rate
	o.UpdatedAt = time.Now()
	return nil
}

// EnableStore enables the public storefront
func (o *Organization) EnableStore() {
	o.StoreEnabled = true
	o.UpdatedAt = time.Now()
}

// DisableStore disables the public storefront
func (o *Organization) DisableStore() {
	o.StoreEnabled = false
	o.UpdatedAt = time.Now()
}

// Suspend suspends the organization
func (o *Organization) Suspend() error {
	if o.Status == OrganizationStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Organization is already suspended")
	}
	o.Status = OrganizationStatusSuspended
	o.UpdatedAt = time.Now()
	return nil
}

// IsActive reports whether the organization can serve requests
func (o *Organization) IsActive() bool {
	return o.Status == OrganizationStatusActive
}
