package trade_test

import (
	"context"
	"testing"

	apptrade "github.com/dokan/papershop/internal/application/trade"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/infrastructure/persistence"
	"github.com/dokan/papershop/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseService_CreatePurchase_ShippingAndPartialPayment(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PUR-T-01", 45, 70)
	ctx := context.Background()

	supplier, err := f.parties.CreateSupplier(ctx, f.tenantID, apptrade.CreatePartyRequest{Name: "Bashundhara Paper Mills"})
	require.NoError(t, err)

	price := decimal.NewFromInt(50)
	day := tradeDay
	purchase, err := f.purchases.CreatePurchase(ctx, f.tenantID, f.userID, apptrade.CreatePurchaseRequest{
		SupplierID:    &supplier.ID,
		Items:         []apptrade.PurchaseLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(10), UnitPrice: &price}},
		ShippingCost:  decimal.NewFromInt(20),
		PaidAmount:    decimal.NewFromInt(200),
		PaymentMethod: "bank",
		PurchaseDate:  &day,
	})
	require.NoError(t, err)

	assert.Equal(t, "PUR-20260305-0001", purchase.PurchaseNumber)
	assertDecimal(t, "500", purchase.Subtotal)
	assertDecimal(t, "520", purchase.GrandTotal)
	assertDecimal(t, "320", purchase.DueAmount)
	assert.Equal(t, "partial", purchase.PaymentStatus)
	require.Len(t, purchase.Items, 1)
	assertDecimal(t, "50", purchase.Items[0].UnitPrice)

	stock := f.stockOf(t, product.ID)
	assertDecimal(t, "10", stock.Quantity)
	assertDecimal(t, inventory.DefaultReorderLevel.String(), stock.ReorderLevel)

	movements := f.movements(t, product.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.MovementTypeIn, movements[0].MovementType)
	assert.Equal(t, "PUR-20260305-0001", movements[0].Reference)
	assert.Equal(t, "purchase PUR-20260305-0001", movements[0].Notes)

	list, total, err := f.purchases.List(ctx, f.tenantID, apptrade.TransactionListFilter{PartyID: &supplier.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, purchase.ID, list[0].ID)
}

func TestPurchaseService_CreatePurchase_DefaultsToBuyingPrice(t *testing.T) {
	f := newTradeFixture(t)
	first := f.product(t, "PUR-T-02", 12, 20)
	second := f.product(t, "PUR-T-03", 8, 15)

	day := tradeDay
	purchase, err := f.purchases.CreatePurchase(context.Background(), f.tenantID, f.userID, apptrade.CreatePurchaseRequest{
		Items: []apptrade.PurchaseLineInput{
			{ProductID: first.ID, Quantity: decimal.NewFromInt(5)},
			{ProductID: second.ID, Quantity: decimal.NewFromInt(3)},
			{ProductID: first.ID, Quantity: decimal.NewFromInt(1)},
		},
		Tax:          decimal.NewFromInt(4),
		PaidAmount:   decimal.NewFromInt(100),
		PurchaseDate: &day,
	})
	require.NoError(t, err)

	assertDecimal(t, "96", purchase.Subtotal)
	assertDecimal(t, "100", purchase.GrandTotal)
	assertDecimal(t, "0", purchase.DueAmount)
	assert.Equal(t, "paid", purchase.PaymentStatus)

	assertDecimal(t, "6", f.stockOf(t, first.ID).Quantity, "repeated lines both post")
	assertDecimal(t, "3", f.stockOf(t, second.ID).Quantity)
	assert.Len(t, f.movements(t, first.ID), 2)
}

func TestPurchaseService_CreatePurchase_InactiveProductAllowed(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PUR-T-04", 10, 15)
	product.Deactivate()
	require.NoError(t, persistence.NewGormProductRepository(f.db).Save(testutil.TenantContext(f.tenantID), product))

	_, err := f.purchases.CreatePurchase(context.Background(), f.tenantID, f.userID, apptrade.CreatePurchaseRequest{
		Items: []apptrade.PurchaseLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)
	assertDecimal(t, "2", f.stockOf(t, product.ID).Quantity)
}

func TestPurchaseService_CreatePurchase_Rejections(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PUR-T-05", 10, 15)
	ctx := context.Background()

	t.Run("unknown supplier", func(t *testing.T) {
		missing := uuid.New()
		_, err := f.purchases.CreatePurchase(ctx, f.tenantID, f.userID, apptrade.CreatePurchaseRequest{
			SupplierID: &missing,
			Items:      []apptrade.PurchaseLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
		})
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := f.purchases.CreatePurchase(ctx, f.tenantID, f.userID, apptrade.CreatePurchaseRequest{
			Items: []apptrade.PurchaseLineInput{{ProductID: product.ID, Quantity: decimal.Zero}},
		})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("negative shipping", func(t *testing.T) {
		_, err := f.purchases.CreatePurchase(ctx, f.tenantID, f.userID, apptrade.CreatePurchaseRequest{
			Items:        []apptrade.PurchaseLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
			ShippingCost: decimal.NewFromInt(-5),
		})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("paid above grand total", func(t *testing.T) {
		_, err := f.purchases.CreatePurchase(ctx, f.tenantID, f.userID, apptrade.CreatePurchaseRequest{
			Items:      []apptrade.PurchaseLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(2)}},
			PaidAmount: decimal.NewFromInt(21),
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeOverpayment, shared.CodeOf(err))
	})

	_, total, err := f.purchases.List(ctx, f.tenantID, apptrade.TransactionListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, f.movements(t, product.ID))
}

func TestPurchaseService_ApplyPayment_RejectsOverpayment(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PUR-T-06", 50, 70)
	ctx := context.Background()

	day := tradeDay
	purchase, err := f.purchases.CreatePurchase(ctx, f.tenantID, f.userID, apptrade.CreatePurchaseRequest{
		Items:        []apptrade.PurchaseLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(10)}},
		ShippingCost: decimal.NewFromInt(20),
		PaidAmount:   decimal.NewFromInt(200),
		PurchaseDate: &day,
	})
	require.NoError(t, err)

	_, err = f.purchases.ApplyPayment(ctx, f.tenantID, f.userID, purchase.ID, apptrade.ApplyPaymentRequest{Amount: decimal.NewFromInt(400)})
	require.Error(t, err)
	assert.Equal(t, shared.CodeOverpayment, shared.CodeOf(err))

	stored, err := f.purchases.GetByID(ctx, f.tenantID, purchase.ID)
	require.NoError(t, err)
	assertDecimal(t, "200", stored.PaidAmount, "rejected payment leaves the purchase untouched")
	payments, err := f.purchases.ListPayments(ctx, f.tenantID, purchase.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	result, err := f.purchases.ApplyPayment(ctx, f.tenantID, f.userID, purchase.ID, apptrade.ApplyPaymentRequest{
		Amount: decimal.NewFromInt(320), PaymentMethod: "cash", Notes: "settled",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", result.PaymentStatus)
	assertDecimal(t, "520", result.PaidAmount)
	assertDecimal(t, "0", result.DueAmount)
	assert.Equal(t, purchase.ID, result.Payment.TransactionID)

	payments, err = f.purchases.ListPayments(ctx, f.tenantID, purchase.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assertDecimal(t, "320", payments[0].Amount)
}

func TestPurchaseService_TenantIsolation(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "PUR-T-07", 10, 15)
	purchase := f.stockUp(t, product, 3)

	other := uuid.New()
	_, err := f.purchases.GetByID(context.Background(), other, purchase.ID)
	assert.True(t, shared.IsNotFound(err))
	_, err = f.purchases.ApplyPayment(context.Background(), other, f.userID, purchase.ID, apptrade.ApplyPaymentRequest{Amount: decimal.NewFromInt(1)})
	assert.True(t, shared.IsNotFound(err))
}
