package event

import (
	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/identity"
	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/consignmentgenie/backend/internal/domain/storefront"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Consignment domain - provider lifecycle
	serializer.Register(consignment.EventTypeProviderCreated, &consignment.ProviderCreatedEvent{})
	serializer.Register(consignment.EventTypeProviderApproved, &consignment.ProviderApprovedEvent{})
	serializer.Register(consignment.EventTypeProviderRejected, &consignment.ProviderRejectedEvent{})
	serializer.Register(consignment.EventTypeProviderCommissionChanged, &consignment.ProviderCommissionChangedEvent{})

	// Consignment domain - sales and settlement
	serializer.Register(consignment.EventTypeTransactionRecorded, &consignment.TransactionRecordedEvent{})
	serializer.Register(consignment.EventTypeTransactionVoided, &consignment.TransactionVoidedEvent{})
	serializer.Register(consignment.EventTypePayoutCreated, &consignment.PayoutCreatedEvent{})
	serializer.Register(consignment.EventTypePayoutPaid, &consignment.PayoutPaidEvent{})
	serializer.Register(consignment.EventTypeStatementGenerated, &consignment.StatementGeneratedEvent{})

	// Inventory domain
	serializer.Register(inventory.EventTypeItemListed, &inventory.ItemListedEvent{})
	serializer.Register(inventory.EventTypeItemSold, &inventory.ItemSoldEvent{})

	// Storefront domain
	serializer.Register(storefront.EventTypeOrderCreated, &storefront.OrderCreatedEvent{})
	serializer.Register(storefront.EventTypeOrderPaid, &storefront.OrderPaidEvent{})

	// Identity domain
	serializer.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	serializer.Register(identity.EventTypeUserLocked, &identity.UserLockedEvent{})
}
