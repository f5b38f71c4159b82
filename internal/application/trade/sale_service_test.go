package trade_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	apptrade "github.com/dokan/papershop/internal/application/trade"
	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/dokan/papershop/internal/infrastructure/persistence"
	"github.com/dokan/papershop/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleService_CreateSale_DiscountAndChange(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PAP-0001", 60, 100)
	f.stockUp(t, product, 20)

	day := tradeDay
	sale, err := f.sales.CreateSale(context.Background(), f.tenantID, f.userID, apptrade.CreateSaleRequest{
		Items:         []apptrade.SaleLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(10)}},
		Discount:      decimal.NewFromInt(100),
		PaidAmount:    decimal.NewFromInt(1000),
		PaymentMethod: "cash",
		SaleDate:      &day,
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-20260305-0001", sale.InvoiceNumber)
	assertDecimal(t, "1000", sale.Subtotal)
	assertDecimal(t, "900", sale.GrandTotal)
	assertDecimal(t, "0", sale.DueAmount)
	assertDecimal(t, "100", sale.ChangeAmount)
	assert.Equal(t, "paid", sale.PaymentStatus)
	require.Len(t, sale.Items, 1)
	assertDecimal(t, "100", sale.Items[0].UnitPrice, "missing unit price defaults to selling price")
	assertDecimal(t, "60", sale.Items[0].UnitCost, "unit cost is the buying price at the time of sale")

	assertDecimal(t, "10", f.stockOf(t, product.ID).Quantity)
	movements := f.movements(t, product.ID)
	require.Len(t, movements, 2)
	out := movements[1]
	assert.Equal(t, inventory.MovementTypeOut, out.MovementType)
	assertDecimal(t, "10", out.Quantity)
	assertDecimal(t, "20", out.PreviousQuantity)
	assertDecimal(t, "10", out.NewQuantity)
	assert.Equal(t, "INV-20260305-0001", out.Reference)
	assert.Equal(t, "sale INV-20260305-0001", out.Notes)

	stored, err := f.sales.GetByID(context.Background(), f.tenantID, sale.ID)
	require.NoError(t, err)
	assertDecimal(t, "900", stored.GrandTotal)
	assertDecimal(t, "100", stored.ChangeAmount)
	require.Len(t, stored.Items, 1)
	assertDecimal(t, "60", stored.Items[0].UnitCost)
}

func TestSaleService_CreateSale_UnitCostIsSnapshot(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PAP-0002", 40, 55)
	f.stockUp(t, product, 5)

	sale, err := f.sell(t, product, 1, 55)
	require.NoError(t, err)

	repo := persistence.NewGormProductRepository(f.db)
	ctx := testutil.TenantContext(f.tenantID)
	stored, err := repo.FindByIDForTenant(ctx, f.tenantID, product.ID)
	require.NoError(t, err)
	require.NoError(t, stored.SetPrices(decimal.NewFromInt(45), decimal.NewFromInt(60)))
	require.NoError(t, repo.Save(ctx, stored))

	got, err := f.sales.GetByID(context.Background(), f.tenantID, sale.ID)
	require.NoError(t, err)
	assertDecimal(t, "40", got.Items[0].UnitCost)
	assertDecimal(t, "55", got.Items[0].UnitPrice)
}

func TestSaleService_CreateSale_NumbersAreSequentialPerDay(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PAP-0003", 5, 10)
	f.stockUp(t, product, 50)

	for i := 1; i <= 3; i++ {
		sale, err := f.sell(t, product, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-20260305-%04d", i), sale.InvoiceNumber)
	}

	nextDay := tradeDay.AddDate(0, 0, 1)
	sale, err := f.sales.CreateSale(context.Background(), f.tenantID, f.userID, apptrade.CreateSaleRequest{
		Items:      []apptrade.SaleLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
		PaidAmount: decimal.NewFromInt(10),
		SaleDate:   &nextDay,
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-20260306-0001", sale.InvoiceNumber)
}

func TestSaleService_CreateSale_SeedsFromExistingNumbers(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PAP-0004", 5, 10)
	f.stockUp(t, product, 10)

	// A sale stored before the counter existed
	legacy, err := trade.NewSale(f.tenantID, f.userID, trade.SaleDraft{
		Lines: []trade.SaleLine{{
			ProductID: product.ID, ProductName: product.Name,
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5),
		}},
		PaidAmount: decimal.NewFromInt(10),
		Date:       tradeDay,
	})
	require.NoError(t, err)
	legacy.AssignNumber("INV-20260305-0007")
	require.NoError(t, persistence.NewGormSaleRepository(f.db).Create(testutil.TenantContext(f.tenantID), legacy))

	sale, err := f.sell(t, product, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "INV-20260305-0008", sale.InvoiceNumber)
}

func TestSaleService_CreateSale_ConcurrentNumbersAreUnique(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PAP-0005", 5, 10)
	f.stockUp(t, product, 100)

	const workers = 10
	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			day := tradeDay
			sale, err := f.sales.CreateSale(context.Background(), f.tenantID, f.userID, apptrade.CreateSaleRequest{
				Items:      []apptrade.SaleLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
				PaidAmount: decimal.NewFromInt(10),
				SaleDate:   &day,
			})
			if err != nil {
				errs <- err
				return
			}
			numbers <- sale.InvoiceNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[string]bool)
	for n := range numbers {
		assert.False(t, seen[n], "duplicate invoice number %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[fmt.Sprintf("INV-20260305-%04d", i)], "gap at %d", i)
	}
	assertDecimal(t, "90", f.stockOf(t, product.ID).Quantity)
}

func TestSaleService_CreateSale_InsufficientStockRollsBack(t *testing.T) {
	f := newTradeFixture(t)
	plenty := f.product(t, "PAP-0006", 5, 10)
	scarce := f.product(t, "PAP-0007", 5, 10)
	f.stockUp(t, plenty, 10)
	f.stockUp(t, scarce, 3)

	day := tradeDay
	_, err := f.sales.CreateSale(context.Background(), f.tenantID, f.userID, apptrade.CreateSaleRequest{
		Items: []apptrade.SaleLineInput{
			{ProductID: plenty.ID, Quantity: decimal.NewFromInt(2)},
			{ProductID: scarce.ID, Quantity: decimal.NewFromInt(5)},
		},
		PaidAmount: decimal.NewFromInt(70),
		SaleDate:   &day,
	})
	require.Error(t, err)
	assert.Equal(t, shared.CodeInsufficientStock, shared.CodeOf(err))

	_, total, err := f.sales.List(context.Background(), f.tenantID, apptrade.TransactionListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assertDecimal(t, "10", f.stockOf(t, plenty.ID).Quantity)
	assertDecimal(t, "3", f.stockOf(t, scarce.ID).Quantity)
	assert.Len(t, f.movements(t, plenty.ID), 1)

	sale, err := f.sell(t, plenty, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "INV-20260305-0001", sale.InvoiceNumber, "the failed sale must not consume a number")
}

func TestSaleService_CreateSale_Rejections(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PAP-0008", 5, 10)
	f.stockUp(t, product, 10)
	ctx := context.Background()

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.sales.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
			Items: []apptrade.SaleLineInput{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("unknown customer", func(t *testing.T) {
		missing := uuid.New()
		_, err := f.sales.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
			CustomerID: &missing,
			Items:      []apptrade.SaleLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
		})
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("no lines", func(t *testing.T) {
		_, err := f.sales.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("inactive product", func(t *testing.T) {
		retired := f.product(t, "PAP-0009", 5, 10)
		retired.Deactivate()
		require.NoError(t, persistence.NewGormProductRepository(f.db).Save(testutil.TenantContext(f.tenantID), retired))

		_, err := f.sell(t, retired, 1, 10)
		require.Error(t, err)
		assert.Equal(t, "INVALID_PRODUCT", shared.CodeOf(err))
	})

	t.Run("product of another shop", func(t *testing.T) {
		_, err := f.sales.CreateSale(ctx, uuid.New(), f.userID, apptrade.CreateSaleRequest{
			Items: []apptrade.SaleLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
		})
		assert.True(t, shared.IsNotFound(err))
	})

	assertDecimal(t, "10", f.stockOf(t, product.ID).Quantity)
}

func TestSaleService_CreateSale_PublishesLowStockOnCrossing(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PAP-0010", 5, 10)
	f.stockUp(t, product, 14)

	_, err := f.sell(t, product, 2, 20)
	require.NoError(t, err)
	assert.Empty(t, f.publisher.EventsOfType(inventory.EventTypeStockLowLevelReached), "12 is above the reorder level")

	_, err = f.sell(t, product, 3, 30)
	require.NoError(t, err)
	assert.Len(t, f.publisher.EventsOfType(inventory.EventTypeStockLowLevelReached), 1)

	_, err = f.sell(t, product, 1, 10)
	require.NoError(t, err)
	assert.Len(t, f.publisher.EventsOfType(inventory.EventTypeStockLowLevelReached), 1, "already low, no new event")
}

func TestSaleService_ApplyPayment(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PAP-0011", 30, 50)
	f.stockUp(t, product, 10)
	ctx := context.Background()

	sale, err := f.sell(t, product, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "unpaid", sale.PaymentStatus)
	assertDecimal(t, "500", sale.DueAmount)

	result, err := f.sales.ApplyPayment(ctx, f.tenantID, f.userID, sale.ID, apptrade.ApplyPaymentRequest{
		Amount: decimal.NewFromInt(200), PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "partial", result.PaymentStatus)
	assertDecimal(t, "300", result.DueAmount)
	assertDecimal(t, "200", result.PaidAmount)

	result, err = f.sales.ApplyPayment(ctx, f.tenantID, f.userID, sale.ID, apptrade.ApplyPaymentRequest{
		Amount: decimal.NewFromInt(400), PaymentMethod: "mobile", Reference: "TX-99",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", result.PaymentStatus)
	assertDecimal(t, "0", result.DueAmount)
	assertDecimal(t, "100", result.ChangeAmount)
	assert.Equal(t, "TX-99", result.Payment.Reference)

	payments, err := f.sales.ListPayments(ctx, f.tenantID, sale.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	stored, err := f.sales.GetByID(ctx, f.tenantID, sale.ID)
	require.NoError(t, err)
	assertDecimal(t, "600", stored.PaidAmount)
	assert.Equal(t, "paid", stored.PaymentStatus)

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := f.sales.ApplyPayment(ctx, f.tenantID, f.userID, sale.ID, apptrade.ApplyPaymentRequest{Amount: decimal.Zero})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("other shop", func(t *testing.T) {
		_, err := f.sales.ApplyPayment(ctx, uuid.New(), f.userID, sale.ID, apptrade.ApplyPaymentRequest{Amount: decimal.NewFromInt(1)})
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestSaleService_TenantIsolation(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PAP-0012", 5, 10)
	f.stockUp(t, product, 5)
	sale, err := f.sell(t, product, 1, 10)
	require.NoError(t, err)

	other := uuid.New()
	_, err = f.sales.GetByID(context.Background(), other, sale.ID)
	assert.True(t, shared.IsNotFound(err))
	_, err = f.sales.ListPayments(context.Background(), other, sale.ID)
	assert.True(t, shared.IsNotFound(err))

	sales, total, err := f.sales.List(context.Background(), other, apptrade.TransactionListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, sales)
}

func TestSaleService_List_Filters(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PAP-0013", 5, 10)
	f.stockUp(t, product, 10)

	_, err := f.sell(t, product, 1, 10)
	require.NoError(t, err)
	due, err := f.sell(t, product, 2, 5)
	require.NoError(t, err)

	ctx := context.Background()
	sales, total, err := f.sales.List(ctx, f.tenantID, apptrade.TransactionListFilter{DueOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, due.ID, sales[0].ID)

	sales, total, err = f.sales.List(ctx, f.tenantID, apptrade.TransactionListFilter{PaymentStatus: "paid"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.NotEqual(t, due.ID, sales[0].ID)

	from := tradeDay.AddDate(0, 0, 1)
	_, total, err = f.sales.List(ctx, f.tenantID, apptrade.TransactionListFilter{From: &from})
	require.NoError(t, err)
	assert.Zero(t, total)

	to := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	_, total, err = f.sales.List(ctx, f.tenantID, apptrade.TransactionListFilter{From: &to, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "the To day is inclusive")

	_, total, err = f.sales.List(ctx, f.tenantID, apptrade.TransactionListFilter{Search: "0002"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

// flakyScope fails the first failures attempts with a lost number race
type flakyScope struct {
	apptrade.TransactionScope
	failures int
	calls    int
}

func (s *flakyScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	s.calls++
	if s.calls <= s.failures {
		return fmt.Errorf("insert sale: %w", shared.ErrDuplicateNumber)
	}
	return s.TransactionScope.Execute(ctx, fn)
}

func TestSaleService_CreateSale_RetriesLostNumberRace(t *testing.T) {
	scope := &flakyScope{failures: 2}
	f := newTradeFixtureWithScope(t, func(inner apptrade.TransactionScope) apptrade.TransactionScope {
		scope.TransactionScope = inner
		return scope
	})
	product := f.product(t, "PAP-0014", 5, 10)
	f.stockUp(t, product, 5)
	scope.calls = 0

	sale, err := f.sell(t, product, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, scope.calls)
	assert.Equal(t, "INV-20260305-0001", sale.InvoiceNumber)
}

func TestSaleService_CreateSale_GivesUpAfterMaxRetries(t *testing.T) {
	scope := &flakyScope{failures: 100}
	f := newTradeFixtureWithScope(t, func(inner apptrade.TransactionScope) apptrade.TransactionScope {
		scope.TransactionScope = inner
		return scope
	})
	f.sales.SetMaxRetries(4)
	product := f.product(t, "PAP-0015", 5, 10)

	_, err := f.sell(t, product, 1, 10)
	require.Error(t, err)
	assert.Equal(t, shared.CodeConflict, shared.CodeOf(err))
	assert.Contains(t, err.Error(), "after 4 attempts")
	assert.Equal(t, 4, scope.calls)
}

// serializationScope makes the first transaction lose a Postgres
// serialization race inside the real GORM scope
type serializationScope struct {
	apptrade.TransactionScope
	calls int
}

func (s *serializationScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	s.calls++
	if s.calls == 1 {
		return s.TransactionScope.Execute(ctx, func(apptrade.TransactionalRepositories) error {
			return &pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"}
		})
	}
	return s.TransactionScope.Execute(ctx, fn)
}

func TestSaleService_CreateSale_RetriesSerializationFailure(t *testing.T) {
	scope := &serializationScope{}
	f := newTradeFixtureWithScope(t, func(inner apptrade.TransactionScope) apptrade.TransactionScope {
		scope.TransactionScope = inner
		return scope
	})
	product := f.product(t, "PAP-0017", 5, 10)
	f.stockUp(t, product, 5)
	scope.calls = 0

	sale, err := f.sell(t, product, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, scope.calls)
	assert.Equal(t, "INV-20260305-0001", sale.InvoiceNumber)
}

type capturingRenderer struct {
	doc *apptrade.InvoiceDocument
}

func (r *capturingRenderer) RenderInvoice(_ context.Context, doc *apptrade.InvoiceDocument) ([]byte, error) {
	r.doc = doc
	return []byte("%PDF-1.4"), nil
}

func TestSaleService_RenderInvoice(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PAP-0016", 5, 10)
	f.stockUp(t, product, 5)
	ctx := context.Background()

	customer, err := f.parties.CreateCustomer(ctx, f.tenantID, apptrade.CreatePartyRequest{Name: "Rahim Stationers"})
	require.NoError(t, err)
	day := tradeDay
	sale, err := f.sales.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		CustomerID: &customer.ID,
		Items:      []apptrade.SaleLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(2)}},
		PaidAmount: decimal.NewFromInt(5),
		SaleDate:   &day,
	})
	require.NoError(t, err)
	_, err = f.sales.ApplyPayment(ctx, f.tenantID, f.userID, sale.ID, apptrade.ApplyPaymentRequest{Amount: decimal.NewFromInt(15)})
	require.NoError(t, err)

	t.Run("not configured", func(t *testing.T) {
		_, err := f.sales.RenderInvoice(ctx, f.tenantID, sale.ID)
		assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))
	})

	orgs := persistence.NewGormOrganizationRepository(f.db)
	org, err := identity.NewOrganization("Dokan Paper House", "")
	require.NoError(t, err)
	org.ID = f.tenantID
	require.NoError(t, orgs.Save(ctx, org))

	renderer := &capturingRenderer{}
	f.sales.SetInvoiceRenderer(orgs, renderer)

	pdf, err := f.sales.RenderInvoice(ctx, f.tenantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	require.NotNil(t, renderer.doc)
	assert.Equal(t, "Dokan Paper House", renderer.doc.Organization.Name)
	assert.Equal(t, "INV-20260305-0001", renderer.doc.Sale.InvoiceNumber)
	require.NotNil(t, renderer.doc.Customer)
	assert.Equal(t, "Rahim Stationers", renderer.doc.Customer.Name)
	assert.Len(t, renderer.doc.Payments, 1)

	_, err = f.sales.RenderInvoice(ctx, uuid.New(), sale.ID)
	assert.True(t, shared.IsNotFound(err))
}

type recordedActivity struct {
	kind   string
	amount string
}

type stubRecorder struct {
	mu        sync.Mutex
	documents []recordedActivity
	payments  []recordedActivity
}

func (r *stubRecorder) RecordDocument(_ context.Context, kind string, grandTotal decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents = append(r.documents, recordedActivity{kind, grandTotal.String()})
}

func (r *stubRecorder) RecordPayment(_ context.Context, kind string, amount decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, recordedActivity{kind, amount.String()})
}

func TestSaleService_RecordsCommittedActivity(t *testing.T) {
	f := newTradeFixture(t)
	recorder := &stubRecorder{}
	f.sales.SetRecorder(recorder)
	f.purchases.SetRecorder(recorder)

	product := f.product(t, "PAP-0042", 30, 50)
	f.stockUp(t, product, 2)

	sale, err := f.sell(t, product, 2, 0)
	require.NoError(t, err)
	_, err = f.sales.ApplyPayment(context.Background(), f.tenantID, f.userID, sale.ID, apptrade.ApplyPaymentRequest{
		Amount: decimal.NewFromInt(40), PaymentMethod: "cash",
	})
	require.NoError(t, err)

	_, err = f.sell(t, product, 5, 0)
	require.Error(t, err, "insufficient stock")

	assert.Equal(t, []recordedActivity{{"purchase", "60"}, {"sale", "100"}}, recorder.documents)
	assert.Equal(t, []recordedActivity{{"sale", "40"}}, recorder.payments)
}
