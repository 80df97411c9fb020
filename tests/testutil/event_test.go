package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEventHandlerRecordsEvents(t *testing.T) {
	handler := NewMockEventHandler("PayoutPaid", "PayoutCreated")

	assert.Equal(t, []string{"PayoutPaid", "PayoutCreated"}, handler.EventTypes())
	assert.Equal(t, 0, handler.HandledCount())

	event := NewTestEvent("PayoutPaid", uuid.New())
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Equal(t, 1, handler.HandledCount())
	assert.Equal(t, event, handler.Handled()[0])
}

func TestMockEventHandlerSetError(t *testing.T) {
	handler := NewMockEventHandler("OrderPaid")
	handler.SetError(errors.New("smtp unreachable"))

	err := handler.Handle(context.Background(), NewTestEvent("OrderPaid", uuid.New()))

	require.Error(t, err)
	assert.Equal(t, 1, handler.HandledCount(), "failing handler still records the event")
}

func TestMockEventHandlerReset(t *testing.T) {
	handler := NewMockEventHandler("OrderPaid")
	handler.SetError(errors.New("smtp unreachable"))
	_ = handler.Handle(context.Background(), NewTestEvent("OrderPaid", uuid.New()))

	handler.Reset()

	assert.Equal(t, 0, handler.HandledCount())
	require.NoError(t, handler.Handle(context.Background(), NewTestEvent("OrderPaid", uuid.New())))
}

func TestMockEventHandlerConcurrentDelivery(t *testing.T) {
	handler := NewMockEventHandler()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = handler.Handle(context.Background(), NewTestEvent("TransactionRecorded", uuid.New()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, handler.HandledCount())
}

func TestNewTestEvent(t *testing.T) {
	tenantID := uuid.New()
	event := NewTestEvent("ItemListed", tenantID)

	assert.Equal(t, "ItemListed", event.EventType())
	assert.Equal(t, tenantID, event.TenantID())
	assert.Equal(t, "TestAggregate", event.AggregateType())
	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.NotEqual(t, uuid.Nil, event.AggregateID())
	assert.WithinDuration(t, time.Now(), event.OccurredAt(), time.Second)
}

func TestWaitForCondition(t *testing.T) {
	calls := 0
	met := WaitForCondition(t, func() bool {
		calls++
		return calls >= 3
	}, time.Second, time.Millisecond)

	assert.True(t, met)

	met = WaitForCondition(t, func() bool { return false }, 20*time.Millisecond, time.Millisecond)
	assert.False(t, met)
}

func TestWaitForEventCount(t *testing.T) {
	handler := NewMockEventHandler("OrderCreated")

	go func() {
		for i := 0; i < 3; i++ {
			_ = handler.Handle(context.Background(), NewTestEvent("OrderCreated", uuid.New()))
		}
	}()

	assert.True(t, WaitForEventCount(t, handler, 3, time.Second))
}
