package finance_test

import (
	"context"
	"sync"
	"testing"
	"time"

	appfinance "github.com/dokan/papershop/internal/application/finance"
	apptrade "github.com/dokan/papershop/internal/application/trade"
	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/infrastructure/lock"
	"github.com/dokan/papershop/internal/infrastructure/persistence"
	"github.com/dokan/papershop/internal/infrastructure/storage"
	"github.com/dokan/papershop/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ledgerDay = time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

// recordingLocker serializes like MemoryLocker and remembers every key
type recordingLocker struct {
	inner *lock.MemoryLocker
	mu    sync.Mutex
	keys  []string
}

func (l *recordingLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	return l.inner.WithLock(ctx, key, fn)
}

type financeFixture struct {
	db        *gorm.DB
	cashFlow  *appfinance.CashFlowService
	expenses  *appfinance.ExpenseService
	ledger    *appfinance.AccountingService
	sales     *apptrade.SaleService
	purchases *apptrade.PurchaseService
	storage   *storage.MemoryObjectStorage
	locker    *recordingLocker
	tenantID  uuid.UUID
	userID    uuid.UUID
}

func newFinanceFixture(t *testing.T) *financeFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	scope := persistence.NewGormTradeTransactionScope(db)
	productRepo := persistence.NewGormProductRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)

	locker := &recordingLocker{inner: lock.NewMemoryLocker()}
	objects := storage.NewMemoryObjectStorage()
	expenses := appfinance.NewExpenseService(persistence.NewGormExpenseRepository(db))
	expenses.SetReceiptStorage(objects)

	return &financeFixture{
		db:        db,
		cashFlow:  appfinance.NewCashFlowService(persistence.NewGormCashFlowRepository(db), persistence.NewGormLedgerReader(db), locker),
		expenses:  expenses,
		ledger:    appfinance.NewAccountingService(persistence.NewGormTransactionRepository(db), persistence.NewGormLedgerReader(db)),
		sales:     apptrade.NewSaleService(persistence.NewGormSaleRepository(db), paymentRepo, productRepo, persistence.NewGormCustomerRepository(db), scope),
		purchases: apptrade.NewPurchaseService(persistence.NewGormPurchaseRepository(db), paymentRepo, productRepo, persistence.NewGormSupplierRepository(db), scope),
		storage:   objects,
		locker:    locker,
		tenantID:  uuid.New(),
		userID:    uuid.New(),
	}
}

func (f *financeFixture) product(t *testing.T, sku string, buying, selling int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(f.tenantID, "Product "+sku, decimal.NewFromInt(buying), decimal.NewFromInt(selling))
	require.NoError(t, err)
	require.NoError(t, p.AssignSKU(sku))
	require.NoError(t, persistence.NewGormProductRepository(f.db).Save(testutil.TenantContext(f.tenantID), p))
	return p
}

func (f *financeFixture) buy(t *testing.T, product *catalog.Product, qty, paid int64, day time.Time) {
	t.Helper()
	_, err := f.purchases.CreatePurchase(context.Background(), f.tenantID, f.userID, apptrade.CreatePurchaseRequest{
		Items:        []apptrade.PurchaseLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(qty)}},
		PaidAmount:   decimal.NewFromInt(paid),
		PurchaseDate: &day,
	})
	require.NoError(t, err)
}

func (f *financeFixture) sell(t *testing.T, product *catalog.Product, qty, paid int64, day time.Time) {
	t.Helper()
	_, err := f.sales.CreateSale(context.Background(), f.tenantID, f.userID, apptrade.CreateSaleRequest{
		Items:      []apptrade.SaleLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(qty)}},
		PaidAmount: decimal.NewFromInt(paid),
		SaleDate:   &day,
	})
	require.NoError(t, err)
}

func (f *financeFixture) spend(t *testing.T, category string, amount int64, description string, day time.Time) *appfinance.ExpenseResponse {
	t.Helper()
	resp, err := f.expenses.Create(context.Background(), f.tenantID, f.userID, appfinance.CreateExpenseRequest{
		Category:    category,
		Amount:      decimal.NewFromInt(amount),
		Description: description,
		ExpenseDate: &day,
	})
	require.NoError(t, err)
	return resp
}

func (f *financeFixture) record(t *testing.T, kind, category string, amount int64, description string, day time.Time) *appfinance.TransactionResponse {
	t.Helper()
	resp, err := f.ledger.CreateTransaction(context.Background(), f.tenantID, f.userID, appfinance.CreateTransactionRequest{
		Type:            kind,
		Category:        category,
		Amount:          decimal.NewFromInt(amount),
		Description:     description,
		TransactionDate: &day,
	})
	require.NoError(t, err)
	return resp
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual),
		append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}
