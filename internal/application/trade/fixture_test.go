package trade_test

import (
	"context"
	"testing"
	"time"

	apptrade "github.com/dokan/papershop/internal/application/trade"
	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/infrastructure/persistence"
	"github.com/dokan/papershop/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var tradeDay = time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)

type tradeFixture struct {
	db        *gorm.DB
	sales     *apptrade.SaleService
	purchases *apptrade.PurchaseService
	parties   *apptrade.PartyService
	publisher *testutil.RecordingPublisher
	tenantID  uuid.UUID
	userID    uuid.UUID
}

func newTradeFixture(t *testing.T) *tradeFixture {
	t.Helper()
	return newTradeFixtureWithScope(t, nil)
}

// newTradeFixtureWithScope lets a test wrap the real transaction scope
func newTradeFixtureWithScope(t *testing.T, wrap func(apptrade.TransactionScope) apptrade.TransactionScope) *tradeFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	var scope apptrade.TransactionScope = persistence.NewGormTradeTransactionScope(db)
	if wrap != nil {
		scope = wrap(scope)
	}
	productRepo := persistence.NewGormProductRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)

	publisher := testutil.NewRecordingPublisher()
	sales := apptrade.NewSaleService(persistence.NewGormSaleRepository(db), paymentRepo, productRepo, customerRepo, scope)
	sales.SetEventPublisher(publisher)
	purchases := apptrade.NewPurchaseService(persistence.NewGormPurchaseRepository(db), paymentRepo, productRepo, supplierRepo, scope)
	purchases.SetEventPublisher(publisher)

	return &tradeFixture{
		db:        db,
		sales:     sales,
		purchases: purchases,
		parties:   apptrade.NewPartyService(customerRepo, supplierRepo, persistence.NewGormReportReader(db)),
		publisher: publisher,
		tenantID:  uuid.New(),
		userID:    uuid.New(),
	}
}

func (f *tradeFixture) product(t *testing.T, sku string, buying, selling int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(f.tenantID, "Product "+sku, decimal.NewFromInt(buying), decimal.NewFromInt(selling))
	require.NoError(t, err)
	require.NoError(t, p.AssignSKU(sku))
	require.NoError(t, persistence.NewGormProductRepository(f.db).Save(testutil.TenantContext(f.tenantID), p))
	return p
}

// stockUp buys qty units of product at its buying price
func (f *tradeFixture) stockUp(t *testing.T, product *catalog.Product, qty int64) *apptrade.PurchaseResponse {
	t.Helper()
	day := tradeDay
	resp, err := f.purchases.CreatePurchase(context.Background(), f.tenantID, f.userID, apptrade.CreatePurchaseRequest{
		Items:        []apptrade.PurchaseLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(qty)}},
		PaidAmount:   product.BuyingPrice.Mul(decimal.NewFromInt(qty)),
		PurchaseDate: &day,
	})
	require.NoError(t, err)
	return resp
}

func (f *tradeFixture) sell(t *testing.T, product *catalog.Product, qty int64, paid int64) (*apptrade.SaleResponse, error) {
	t.Helper()
	day := tradeDay
	return f.sales.CreateSale(context.Background(), f.tenantID, f.userID, apptrade.CreateSaleRequest{
		Items:      []apptrade.SaleLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(qty)}},
		PaidAmount: decimal.NewFromInt(paid),
		SaleDate:   &day,
	})
}

func (f *tradeFixture) stockOf(t *testing.T, productID uuid.UUID) *inventory.Stock {
	t.Helper()
	stock, err := persistence.NewGormStockRepository(f.db).FindByProduct(testutil.TenantContext(f.tenantID), f.tenantID, productID)
	require.NoError(t, err)
	return stock
}

func (f *tradeFixture) movements(t *testing.T, productID uuid.UUID) []inventory.StockMovement {
	t.Helper()
	filter := inventory.MovementFilter{Filter: shared.DefaultFilter(), ProductID: &productID}
	filter.OrderDir = "asc"
	movements, _, err := persistence.NewGormStockMovementRepository(f.db).FindForTenant(testutil.TenantContext(f.tenantID), f.tenantID, filter)
	require.NoError(t, err)
	return movements
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual),
		append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}
