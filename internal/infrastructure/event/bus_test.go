package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/infrastructure/event"
	"github.com/dokan/papershop/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowStockEvent(tenantID uuid.UUID) *inventory.StockLowLevelReachedEvent {
	stock := &inventory.Stock{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           uuid.New(),
		Quantity:            decimal.NewFromInt(3),
		ReorderLevel:        decimal.NewFromInt(10),
	}
	return inventory.NewStockLowLevelReachedEvent(stock)
}

type panickingHandler struct{}

func (panickingHandler) Handle(context.Context, shared.DomainEvent) error { panic("boom") }
func (panickingHandler) EventTypes() []string                            { return nil }

func TestInMemoryEventBus_DeliversByType(t *testing.T) {
	bus := event.NewInMemoryEventBus(nil)
	lowStock := testutil.NewMockEventHandler(inventory.EventTypeStockLowLevelReached)
	other := testutil.NewMockEventHandler("SomethingElse")
	everything := testutil.NewMockEventHandler()

	bus.Subscribe(lowStock)
	bus.Subscribe(other)
	bus.Subscribe(everything)

	evt := lowStockEvent(uuid.New())
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Equal(t, 1, lowStock.HandledCount())
	assert.Same(t, evt, lowStock.Handled()[0])
	assert.Zero(t, other.HandledCount())
	assert.Equal(t, 1, everything.HandledCount(), "handlers without types receive every event")
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	bus := event.NewInMemoryEventBus(nil)
	failing := testutil.NewMockEventHandler(inventory.EventTypeStockLowLevelReached)
	failing.SetError(errors.New("alert table unavailable"))
	healthy := testutil.NewMockEventHandler(inventory.EventTypeStockLowLevelReached)

	bus.Subscribe(failing)
	bus.Subscribe(panickingHandler{}, inventory.EventTypeStockLowLevelReached)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), lowStockEvent(uuid.New()), lowStockEvent(uuid.New()))
	require.NoError(t, err, "publishers never see handler errors")
	assert.Equal(t, 2, healthy.HandledCount())
	assert.Equal(t, int64(4), bus.Failures())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := event.NewInMemoryEventBus(nil)
	handler := testutil.NewMockEventHandler(inventory.EventTypeStockLowLevelReached)
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), lowStockEvent(uuid.New())))
	assert.Zero(t, handler.HandledCount())
}

func TestInMemoryEventBus_StopDropsEvents(t *testing.T) {
	bus := event.NewInMemoryEventBus(nil)
	handler := testutil.NewMockEventHandler(inventory.EventTypeStockLowLevelReached)
	bus.Subscribe(handler)
	ctx := context.Background()

	require.NoError(t, bus.Stop(ctx))
	require.NoError(t, bus.Publish(ctx, lowStockEvent(uuid.New())))
	assert.Zero(t, handler.HandledCount())

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, lowStockEvent(uuid.New())))
	assert.Equal(t, 1, handler.HandledCount())
}

func TestHandlerRegistry_OrdersTypedBeforeWildcard(t *testing.T) {
	registry := event.NewHandlerRegistry()
	wildcard := testutil.NewMockEventHandler()
	typed := testutil.NewMockEventHandler(inventory.EventTypeStockLowLevelReached)

	registry.Register(wildcard)
	registry.Register(typed, inventory.EventTypeStockLowLevelReached)

	handlers := registry.GetHandlers(inventory.EventTypeStockLowLevelReached)
	require.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0])
	assert.Same(t, wildcard, handlers[1])

	registry.Unregister(typed)
	assert.Len(t, registry.GetHandlers(inventory.EventTypeStockLowLevelReached), 1)
}
