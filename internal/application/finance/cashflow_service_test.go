package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashFlowService_GetDailyCashFlow_FirstDay(t *testing.T) {
	f := newFinanceFixture(t)
	product := f.product(t, "CF-01", 50, 100)
	f.buy(t, product, 10, 200, ledgerDay)
	f.sell(t, product, 5, 500, ledgerDay.Add(2*time.Hour))
	f.spend(t, "electricity", 50, "March bill", ledgerDay)

	// activity on other days stays out
	f.spend(t, "rent", 999, "February rent", ledgerDay.AddDate(0, 0, -1))

	row, err := f.cashFlow.GetDailyCashFlow(context.Background(), f.tenantID, ledgerDay)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-05", row.Date)
	assertDecimal(t, "0", row.OpeningBalance, "no earlier row")
	assertDecimal(t, "500", row.TotalIncome)
	assertDecimal(t, "250", row.TotalExpense)
	assertDecimal(t, "250", row.ClosingBalance)
	assert.False(t, row.IsClosed)

	require.NotEmpty(t, f.locker.keys)
	assert.Equal(t, "cashflow:"+f.tenantID.String()+":2026-03-05", f.locker.keys[0])
}

func TestCashFlowService_GetDailyCashFlow_Idempotent(t *testing.T) {
	f := newFinanceFixture(t)
	product := f.product(t, "CF-02", 20, 35)
	f.buy(t, product, 4, 80, ledgerDay)
	f.sell(t, product, 2, 70, ledgerDay)

	first, err := f.cashFlow.GetDailyCashFlow(context.Background(), f.tenantID, ledgerDay)
	require.NoError(t, err)
	second, err := f.cashFlow.GetDailyCashFlow(context.Background(), f.tenantID, ledgerDay)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "rollup updates the same row")
	assertDecimal(t, first.OpeningBalance.String(), second.OpeningBalance)
	assertDecimal(t, first.TotalIncome.String(), second.TotalIncome)
	assertDecimal(t, first.TotalExpense.String(), second.TotalExpense)
	assertDecimal(t, "-10", second.ClosingBalance)

	rows, err := f.cashFlow.List(context.Background(), f.tenantID, ledgerDay, ledgerDay)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCashFlowService_GetDailyCashFlow_CarriesClosingForward(t *testing.T) {
	f := newFinanceFixture(t)
	product := f.product(t, "CF-03", 50, 100)
	f.buy(t, product, 10, 200, ledgerDay)
	f.sell(t, product, 5, 500, ledgerDay)

	_, err := f.cashFlow.GetDailyCashFlow(context.Background(), f.tenantID, ledgerDay)
	require.NoError(t, err)

	next := ledgerDay.AddDate(0, 0, 1)
	f.spend(t, "transport", 30, "Delivery van", next)
	row, err := f.cashFlow.GetDailyCashFlow(context.Background(), f.tenantID, next)
	require.NoError(t, err)
	assertDecimal(t, "300", row.OpeningBalance)
	assertDecimal(t, "0", row.TotalIncome)
	assertDecimal(t, "30", row.TotalExpense)
	assertDecimal(t, "270", row.ClosingBalance)
}

func TestCashFlowService_GetDailyCashFlow_GapOpensAtZero(t *testing.T) {
	f := newFinanceFixture(t)
	product := f.product(t, "CF-07", 50, 100)
	f.buy(t, product, 10, 200, ledgerDay)
	f.sell(t, product, 5, 500, ledgerDay)

	first, err := f.cashFlow.GetDailyCashFlow(context.Background(), f.tenantID, ledgerDay)
	require.NoError(t, err)
	assertDecimal(t, "300", first.ClosingBalance)

	// nothing is stored for the two days in between
	later := ledgerDay.AddDate(0, 0, 3)
	row, err := f.cashFlow.GetDailyCashFlow(context.Background(), f.tenantID, later)
	require.NoError(t, err)
	assertDecimal(t, "0", row.OpeningBalance, "only the previous calendar day carries forward")
	assertDecimal(t, "0", row.ClosingBalance)
}

func TestCashFlowService_GetDailyCashFlow_PicksUpNewActivity(t *testing.T) {
	f := newFinanceFixture(t)
	product := f.product(t, "CF-04", 10, 25)
	f.buy(t, product, 10, 100, ledgerDay)

	row, err := f.cashFlow.GetDailyCashFlow(context.Background(), f.tenantID, ledgerDay)
	require.NoError(t, err)
	assertDecimal(t, "-100", row.ClosingBalance)

	f.sell(t, product, 4, 100, ledgerDay)
	row, err = f.cashFlow.GetDailyCashFlow(context.Background(), f.tenantID, ledgerDay)
	require.NoError(t, err)
	assertDecimal(t, "100", row.TotalIncome)
	assertDecimal(t, "0", row.ClosingBalance)
}

func TestCashFlowService_CloseDay(t *testing.T) {
	f := newFinanceFixture(t)
	product := f.product(t, "CF-05", 10, 25)
	f.buy(t, product, 10, 100, ledgerDay)
	f.sell(t, product, 8, 200, ledgerDay)
	ctx := context.Background()

	closed, err := f.cashFlow.CloseDay(ctx, f.tenantID, f.userID, ledgerDay, "counted drawer")
	require.NoError(t, err)
	assert.True(t, closed.IsClosed)
	assert.Equal(t, "counted drawer", closed.Notes)
	require.NotNil(t, closed.ClosedBy)
	assert.Equal(t, f.userID, *closed.ClosedBy)
	require.NotNil(t, closed.ClosedAt)
	assertDecimal(t, "100", closed.ClosingBalance)

	t.Run("closed day ignores later activity", func(t *testing.T) {
		f.sell(t, product, 1, 25, ledgerDay)
		row, err := f.cashFlow.GetDailyCashFlow(ctx, f.tenantID, ledgerDay)
		require.NoError(t, err)
		assert.True(t, row.IsClosed)
		assertDecimal(t, "200", row.TotalIncome)
		assertDecimal(t, "100", row.ClosingBalance)
	})

	t.Run("closing twice", func(t *testing.T) {
		_, err := f.cashFlow.CloseDay(ctx, f.tenantID, f.userID, ledgerDay, "")
		require.Error(t, err)
		assert.Equal(t, shared.CodeDayClosed, shared.CodeOf(err))
	})

	t.Run("future day", func(t *testing.T) {
		_, err := f.cashFlow.CloseDay(ctx, f.tenantID, f.userID, time.Now().AddDate(0, 0, 2), "")
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("next day opens from the frozen closing", func(t *testing.T) {
		row, err := f.cashFlow.GetDailyCashFlow(ctx, f.tenantID, ledgerDay.AddDate(0, 0, 1))
		require.NoError(t, err)
		assertDecimal(t, "100", row.OpeningBalance)
	})
}

func TestCashFlowService_TenantIsolation(t *testing.T) {
	f := newFinanceFixture(t)
	product := f.product(t, "CF-06", 10, 25)
	f.buy(t, product, 5, 50, ledgerDay)

	other := uuid.New()
	row, err := f.cashFlow.GetDailyCashFlow(context.Background(), other, ledgerDay)
	require.NoError(t, err)
	assertDecimal(t, "0", row.TotalExpense)
	assertDecimal(t, "0", row.ClosingBalance)

	mine, err := f.cashFlow.GetDailyCashFlow(context.Background(), f.tenantID, ledgerDay)
	require.NoError(t, err)
	assertDecimal(t, "50", mine.TotalExpense)
	assert.NotEqual(t, row.ID, mine.ID)
}

func TestCashFlowService_List(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.cashFlow.GetDailyCashFlow(ctx, f.tenantID, ledgerDay.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	rows, err := f.cashFlow.List(ctx, f.tenantID, ledgerDay, ledgerDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-03-05", rows[0].Date)
	assert.Equal(t, "2026-03-06", rows[1].Date)

	_, err = f.cashFlow.List(ctx, f.tenantID, ledgerDay, ledgerDay.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}
