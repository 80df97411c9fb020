package event

import (
	"testing"

	"github.com/consignmentgenie/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerRegistryRegisterSpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := testutil.NewMockEventHandler("PayoutCreated", "PayoutPaid")

	registry.Register(handler, "PayoutCreated", "PayoutPaid")

	assert.Len(t, registry.GetHandlers("PayoutCreated"), 1)
	assert.Len(t, registry.GetHandlers("PayoutPaid"), 1)
	assert.Empty(t, registry.GetHandlers("TransactionVoided"))
}

func TestHandlerRegistryRegisterWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	audit := testutil.NewMockEventHandler()

	registry.Register(audit)

	assert.Len(t, registry.GetHandlers("OrderCreated"), 1)
	assert.Len(t, registry.GetHandlers("StatementGenerated"), 1)
}

func TestHandlerRegistryTypedBeforeWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := testutil.NewMockEventHandler("OrderCreated")
	wildcard := testutil.NewMockEventHandler()

	registry.Register(wildcard)
	registry.Register(typed, "OrderCreated")

	handlers := registry.GetHandlers("OrderCreated")
	require.Len(t, handlers, 2)
	// Typed handlers run first regardless of registration order.
	assert.Equal(t, typed, handlers[0])

	others := registry.GetHandlers("ItemListed")
	require.Len(t, others, 1)
	assert.Equal(t, wildcard, others[0])
}

func TestHandlerRegistryUnregister(t *testing.T) {
	registry := NewHandlerRegistry()
	first := testutil.NewMockEventHandler("PayoutPaid")
	second := testutil.NewMockEventHandler("PayoutPaid")

	registry.Register(first, "PayoutPaid")
	registry.Register(second, "PayoutPaid")
	require.Len(t, registry.GetHandlers("PayoutPaid"), 2)

	registry.Unregister(first)

	handlers := registry.GetHandlers("PayoutPaid")
	require.Len(t, handlers, 1)
	assert.Equal(t, second, handlers[0])
}

func TestHandlerRegistryUnregisterWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	audit := testutil.NewMockEventHandler()

	registry.Register(audit)
	require.Len(t, registry.GetHandlers("OrderPaid"), 1)

	registry.Unregister(audit)

	assert.Empty(t, registry.GetHandlers("OrderPaid"))
}

func TestHandlerRegistryUnregisterAcrossTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := testutil.NewMockEventHandler("OrderCreated", "OrderPaid")

	registry.Register(handler, "OrderCreated", "OrderPaid")
	registry.Unregister(handler)

	assert.Empty(t, registry.GetHandlers("OrderCreated"))
	assert.Empty(t, registry.GetHandlers("OrderPaid"))
}
