package finance

import (
	"testing"
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeriod(t *testing.T) {
	now := time.Date(2024, 5, 17, 13, 0, 0, 0, time.UTC)

	p, err := NewPeriod(time.Time{}, time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), p.From)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), p.To)
	assert.Equal(t, time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC), p.End())

	_, err = NewPeriod(now, now.AddDate(0, 0, -1), now)
	assert.True(t, shared.IsValidation(err))

	p, err = NewPeriod(now, now, now)
	require.NoError(t, err)
	assert.Equal(t, p.From, p.To)
}

func TestComputeProfitLoss(t *testing.T) {
	period := Period{From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)}
	pl := ComputeProfitLoss(period, decimal.NewFromInt(10000), decimal.NewFromInt(6500), []CategoryAmount{
		{Category: ExpenseCategoryRent, Amount: decimal.NewFromInt(1500)},
		{Category: ExpenseCategoryElectricity, Amount: decimal.NewFromInt(300)},
	})

	assert.Equal(t, "3500", pl.GrossProfit.String())
	assert.Equal(t, "1800", pl.OperatingExpenses.String())
	assert.Equal(t, "1700", pl.NetProfit.String())
	assert.Equal(t, "35", pl.GrossMargin().String())
}

func TestComputeProfitLoss_NoSales(t *testing.T) {
	pl := ComputeProfitLoss(Period{}, decimal.Zero, decimal.Zero, nil)
	assert.True(t, pl.NetProfit.IsZero())
	assert.True(t, pl.GrossMargin().IsZero())
}
