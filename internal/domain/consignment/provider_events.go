package consignment

import (
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProvider = "Provider"

// Event type constants
const (
	EventTypeProviderCreated           = "ProviderCreated"
	EventTypeProviderApproved          = "ProviderApproved"
	EventTypeProviderRejected          = "ProviderRejected"
	EventTypeProviderCommissionChanged = "ProviderCommissionChanged"
)

// ProviderCreatedEvent is published when a new provider is created
type ProviderCreatedEvent struct {
	shared.BaseDomainEvent
	ProviderID     uuid.UUID       `json:"provider_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Status         ProviderStatus  `json:"status"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

// NewProviderCreatedEvent creates a new ProviderCreatedEvent
func NewProviderCreatedEvent(provider *Provider) *ProviderCreatedEvent {
	return &ProviderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProviderCreated, AggregateTypeProvider, provider.ID, provider.TenantID),
		ProviderID:      provider.ID,
		Code:            provider.Code,
		Name:            provider.Name,
		Status:          provider.Status,
		CommissionRate:  provider.CommissionRate,
	}
}

// ProviderApprovedEvent is published when a pending provider is approved
type ProviderApprovedEvent struct {
	shared.BaseDomainEvent
	ProviderID uuid.UUID `json:"provider_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
}

// NewProviderApprovedEvent creates a new ProviderApprovedEvent
func NewProviderApprovedEvent(provider *Provider) *ProviderApprovedEvent {
	return &ProviderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProviderApproved, AggregateTypeProvider, provider.ID, provider.TenantID),
		ProviderID:      provider.ID,
		Name:            provider.Name,
		Email:           provider.Email,
	}
}

// ProviderRejectedEvent is published when a pending provider is rejected
type ProviderRejectedEvent struct {
	shared.BaseDomainEvent
	ProviderID uuid.UUID `json:"provider_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// NewProviderRejectedEvent creates a new ProviderRejectedEvent
func NewProviderRejectedEvent(provider *Provider, reason string) *ProviderRejectedEvent {
	return &ProviderRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProviderRejected, AggregateTypeProvider, provider.ID, provider.TenantID),
		ProviderID:      provider.ID,
		Name:            provider.Name,
		Email:           provider.Email,
		Reason:          reason,
	}
}

// ProviderCommissionChangedEvent is published when a provider's commission rate changes
type ProviderCommissionChangedEvent struct {
	shared.BaseDomainEvent
	ProviderID uuid.UUID       `json:"provider_id"`
	OldRate    decimal.Decimal `json:"old_rate"`
	NewRate    decimal.Decimal `json:"new_rate"`
}

// NewProviderCommissionChangedEvent creates a new ProviderCommissionChangedEvent
func NewProviderCommissionChangedEvent(provider *Provider, oldRate, newRate decimal.Decimal) *ProviderCommissionChangedEvent {
	return &ProviderCommissionChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProviderCommissionChanged, AggregateTypeProvider, provider.ID, provider.TenantID),
		ProviderID:      provider.ID,
		OldRate:         oldRate,
		NewRate:         newRate,
	}
}
