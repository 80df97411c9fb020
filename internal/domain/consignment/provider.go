package consignment

import (
	"regexp"
	"strings"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProviderStatus represents the lifecycle status of a provider (consignor)
type ProviderStatus string

const (
	ProviderStatusPending     ProviderStatus = "PENDING"
	ProviderStatusActive      ProviderStatus = "ACTIVE"
	ProviderStatusRejected    ProviderStatus = "REJECTED"
	ProviderStatusDeactivated ProviderStatus = "DEACTIVATED"
)

// IsValid checks if the status is a valid ProviderStatus
func (s ProviderStatus) IsValid() bool {
	switch s {
	case ProviderStatusPending, ProviderStatusActive, ProviderStatusRejected, ProviderStatusDeactivated:
		return true
	}
	return false
}

// String returns the string representation of ProviderStatus
func (s ProviderStatus) String() string {
	return string(s)
}

// PaymentPreference represents how a provider prefers to receive payouts
type PaymentPreference string

const (
	PaymentPreferenceCheck       PaymentPreference = "CHECK"
	PaymentPreferenceCash        PaymentPreference = "CASH"
	PaymentPreferenceStoreCredit PaymentPreference = "STORE_CREDIT"
	PaymentPreferenceNone        PaymentPreference = "NONE"
)

// IsValid checks if the preference is a valid PaymentPreference
func (p PaymentPreference) IsValid() bool {
	switch p {
	case PaymentPreferenceCheck, PaymentPreferenceCash, PaymentPreferenceStoreCredit, PaymentPreferenceNone:
		return true
	}
	return false
}

var providerCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{0,49}$`)

// Provider is a consignor: a supplier of consigned goods who earns a
// commission split on each sale. Providers are owned by exactly one tenant
// and are soft-deactivated, never hard-deleted.
type Provider struct {
	shared.TenantAggregateRoot
	Code              string
	Name              string
	ContactName       string
	Email             string
	Phone             string
	CommissionRate    decimal.Decimal // percent of sale price kept by the provider, 0-100
	Status            ProviderStatus
	PaymentPreference PaymentPreference
	Notes             string
	ApprovedAt        *time.Time
	DeactivatedAt     *time.Time
}

func validateProviderCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_PROVIDER_CODE", "Provider code cannot be empty")
	}
	if !providerCodePattern.MatchString(strings.ToUpper(code)) {
		return shared.NewDomainError("INVALID_PROVIDER_CODE", "Provider code can only contain letters, digits and hyphens")
	}
	return nil
}

func validateProviderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_PROVIDER_NAME", "Provider name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PROVIDER_NAME", "Provider name cannot exceed 200 characters")
	}
	return nil
}

// ValidateCommissionRate checks that a commission rate is within [0, 100]
func ValidateCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_COMMISSION_RATE", "Commission rate must be between 0 and 100")
	}
	return nil
}

// NewProvider creates a provider added manually by shop staff. It starts Active.
func NewProvider(tenantID uuid.UUID, code, name string, commissionRate decimal.Decimal) (*Provider, error) {
	provider, err := newProvider(tenantID, code, name, commissionRate, ProviderStatusActive)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	provider.ApprovedAt = &now
	provider.AddDomainEvent(NewProviderCreatedEvent(provider))
	return provider, nil
}

// NewPendingProvider creates a provider from a self-registration. It starts
// Pending and must be approved before items can be consigned.
func NewPendingProvider(tenantID uuid.UUID, code, name string, commissionRate decimal.Decimal) (*Provider, error) {
	provider, err := newProvider(tenantID, code, name, commissionRate, ProviderStatusPending)
	if err != nil {
		return nil, err
	}
	provider.AddDomainEvent(NewProviderCreatedEvent(provider))
	return provider, nil
}

func newProvider(tenantID uuid.UUID, code, name string, commissionRate decimal.Decimal, status ProviderStatus) (*Provider, error) {
	if err := validateProviderCode(code); err != nil {
		return nil, err
	}
	if err := validateProviderName(name); err != nil {
		return nil, err
	}
	if err := ValidateCommissionRate(commissionRate); err != nil {
		return nil, err
	}

	return &Provider{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		CommissionRate:      commissionRate,
		Status:              status,
		PaymentPreference:   PaymentPreferenceNone,
	}, nil
}

// Update updates the provider's basic information
func (p *Provider) Update(name, contactName, email, phone, notes string) error {
	if err := validateProviderName(name); err != nil {
		return err
	}
	p.Name = name
	p.ContactName = contactName
	p.Email = strings.ToLower(strings.TrimSpace(email))
	p.Phone = phone
	p.Notes = notes
	p.UpdatedAt = time.Now()
	return nil
}

// ChangeCommissionRate changes the provider's commission rate. The new rate
// only affects future sales; existing transactions keep their snapshotted rate.
func (p *Provider) ChangeCommissionRate(rate decimal.Decimal) error {
	if err := ValidateCommissionRate(rate); err != nil {
		return err
	}
	old := p.CommissionRate
	p.CommissionRate = rate
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewProviderCommissionChangedEvent(p, old, rate))
	return nil
}

// SetPaymentPreference sets the provider's preferred payout method
func (p *Provider) SetPaymentPreference(pref PaymentPreference) error {
	if !pref.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_PREFERENCE", "Invalid payment preference")
	}
	p.PaymentPreference = pref
	p.UpdatedAt = time.Now()
	return nil
}

// Approve approves a pending provider registration
func (p *Provider) Approve() error {
	if p.Status != ProviderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending providers can be approved")
	}
	now := time.Now()
	p.Status = ProviderStatusActive
	p.ApprovedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewProviderApprovedEvent(p))
	return nil
}

// Reject rejects a pending provider registration
func (p *Provider) Reject(reason string) error {
	if p.Status != ProviderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending providers can be rejected")
	}
	p.Status = ProviderStatusRejected
	if reason != "" {
		p.Notes = reason
	}
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewProviderRejectedEvent(p, reason))
	return nil
}

// Deactivate soft-deactivates an active provider. Historical transactions,
// payouts and statements remain intact.
func (p *Provider) Deactivate() error {
	if p.Status != ProviderStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active providers can be deactivated")
	}
	now := time.Now()
	p.Status = ProviderStatusDeactivated
	p.DeactivatedAt = &now
	p.UpdatedAt = now
	return nil
}

// Reactivate re-activates a deactivated provider
func (p *Provider) Reactivate() error {
	if p.Status != ProviderStatusDeactivated {
		return shared.NewDomainError("INVALID_STATE", "Only deactivated providers can be reactivated")
	}
	p.Status = ProviderStatusActive
	p.DeactivatedAt = nil
	p.UpdatedAt = time.Now()
	return nil
}

// IsActive returns true if the provider can consign items and receive payouts
func (p *Provider) IsActive() bool {
	return p.Status == ProviderStatusActive
}
