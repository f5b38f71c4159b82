package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockStockAlertRepository is a mock implementation of StockAlertRepository
type MockStockAlertRepository struct {
	mock.Mock
}

func (m *MockStockAlertRepository) Create(ctx context.Context, alert *inventory.StockAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockStockAlertRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, unreadOnly bool) ([]inventory.StockAlert, error) {
	args := m.Called(ctx, tenantID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockAlert), args.Error(1)
}

func (m *MockStockAlertRepository) MarkAllRead(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) LatestSKU(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func newLowStockEvent(t *testing.T, tenantID uuid.UUID, qty, reorder int64) (*inventory.Stock, *inventory.StockLowLevelReachedEvent) {
	t.Helper()
	stock, err := inventory.NewStock(tenantID, uuid.New(), decimal.NewFromInt(reorder))
	require.NoError(t, err)
	stock.Quantity = decimal.NewFromInt(qty)
	return stock, inventory.NewStockLowLevelReachedEvent(stock)
}

func TestLowStockAlertHandler_Handle(t *testing.T) {
	tenantID := uuid.New()

	t.Run("records alert with product name", func(t *testing.T) {
		alerts := new(MockStockAlertRepository)
		products := new(MockProductRepository)
		handler := NewLowStockAlertHandler(zaptest.NewLogger(t), alerts, products)

		stock, event := newLowStockEvent(t, tenantID, 4, 10)
		product := &catalog.Product{Name: "A4 Offset 80gsm"}
		products.On("FindByIDForTenant", mock.Anything, tenantID, stock.ProductID).Return(product, nil)
		alerts.On("Create", mock.Anything, mock.MatchedBy(func(a *inventory.StockAlert) bool {
			return a.TenantID == tenantID && a.StockID == stock.ID && !a.IsRead
		})).Return(nil)

		require.NoError(t, handler.Handle(context.Background(), event))

		created := alerts.Calls[0].Arguments.Get(1).(*inventory.StockAlert)
		assert.Contains(t, created.Message, "A4 Offset 80gsm")
		assert.Contains(t, created.Message, "4.00")
		assert.Contains(t, created.Message, "10.00")

		ctx := alerts.Calls[0].Arguments.Get(0).(context.Context)
		got, ok := shared.TenantIDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, tenantID, got)
		alerts.AssertExpectations(t)
	})

	t.Run("falls back to product id when product is gone", func(t *testing.T) {
		alerts := new(MockStockAlertRepository)
		products := new(MockProductRepository)
		handler := NewLowStockAlertHandler(nil, alerts, products)

		stock, event := newLowStockEvent(t, tenantID, 0, 5)
		products.On("FindByIDForTenant", mock.Anything, tenantID, stock.ProductID).Return(nil, shared.NewNotFoundError("Product"))
		alerts.On("Create", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		created := alerts.Calls[0].Arguments.Get(1).(*inventory.StockAlert)
		assert.Contains(t, created.Message, stock.ProductID.String())
	})

	t.Run("propagates repository failure", func(t *testing.T) {
		alerts := new(MockStockAlertRepository)
		products := new(MockProductRepository)
		handler := NewLowStockAlertHandler(zaptest.NewLogger(t), alerts, products)

		stock, event := newLowStockEvent(t, tenantID, 1, 5)
		products.On("FindByIDForTenant", mock.Anything, tenantID, stock.ProductID).Return(&catalog.Product{Name: "Pen"}, nil)
		alerts.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		err := handler.Handle(context.Background(), event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("rejects other event types", func(t *testing.T) {
		handler := NewLowStockAlertHandler(zaptest.NewLogger(t), new(MockStockAlertRepository), new(MockProductRepository))
		other := shared.NewBaseDomainEvent("SomethingElse", "Stock", uuid.New(), tenantID)

		err := handler.Handle(context.Background(), &other)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected event type")
	})
}

func TestLowStockAlertHandler_EventTypes(t *testing.T) {
	handler := NewLowStockAlertHandler(nil, nil, nil)
	assert.Equal(t, []string{inventory.EventTypeStockLowLevelReached}, handler.EventTypes())
}
