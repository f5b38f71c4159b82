package trade_test

import (
	"context"
	"testing"

	apptrade "github.com/dokan/papershop/internal/application/trade"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartyService_GetCustomer_Summary(t *testing.T) {
	f := newTradeFixture(t)
	product := f.product(t, "CUS-T-01", 5, 10)
	f.stockUp(t, product, 20)
	ctx := context.Background()

	customer, err := f.parties.CreateCustomer(ctx, f.tenantID, apptrade.CreatePartyRequest{
		Name: "Karim Traders", Phone: "01711000000", Email: "karim@example.com",
	})
	require.NoError(t, err)

	for _, paid := range []int64{50, 20} {
		day := tradeDay
		_, err := f.sales.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
			CustomerID: &customer.ID,
			Items:      []apptrade.SaleLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(5)}},
			PaidAmount: decimal.NewFromInt(paid),
			SaleDate:   &day,
		})
		require.NoError(t, err)
	}
	// walk-in sale does not count
	_, err = f.sell(t, product, 1, 10)
	require.NoError(t, err)

	detail, err := f.parties.GetCustomer(ctx, f.tenantID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Karim Traders", detail.Name)
	assert.Equal(t, int64(2), detail.SaleCount)
	assertDecimal(t, "100", detail.TotalPurchases)
	assertDecimal(t, "30", detail.TotalDue)

	_, err = f.parties.GetCustomer(ctx, uuid.New(), customer.ID)
	assert.True(t, shared.IsNotFound(err))
}

func TestPartyService_CreateAndList(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Zaman Papers", "Alpha Print", "Meghna Stationery"} {
		_, err := f.parties.CreateSupplier(ctx, f.tenantID, apptrade.CreatePartyRequest{Name: name})
		require.NoError(t, err)
	}
	_, err := f.parties.CreateSupplier(ctx, uuid.New(), apptrade.CreatePartyRequest{Name: "Other Shop Supplier"})
	require.NoError(t, err)

	suppliers, total, err := f.parties.ListSuppliers(ctx, f.tenantID, apptrade.PartyListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "Alpha Print", suppliers[0].Name)
	assert.Equal(t, "Zaman Papers", suppliers[2].Name)

	suppliers, total, err = f.parties.ListSuppliers(ctx, f.tenantID, apptrade.PartyListFilter{Search: "meghna"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Meghna Stationery", suppliers[0].Name)

	got, err := f.parties.GetSupplier(ctx, f.tenantID, suppliers[0].ID)
	require.NoError(t, err)
	assert.Equal(t, suppliers[0].ID, got.ID)

	_, err = f.parties.CreateCustomer(ctx, f.tenantID, apptrade.CreatePartyRequest{Name: "   "})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))

	_, err = f.parties.CreateCustomer(ctx, f.tenantID, apptrade.CreatePartyRequest{Name: "Walk-in Regular"})
	require.NoError(t, err)
	customers, total, err := f.parties.ListCustomers(ctx, f.tenantID, apptrade.PartyListFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Walk-in Regular", customers[0].Name)
}
