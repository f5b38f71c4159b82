package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXExporter_ExportProfitLoss(t *testing.T) {
	period := finance.Period{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	pl := finance.ComputeProfitLoss(period, decimal.NewFromInt(12000), decimal.NewFromInt(7500), []finance.CategoryAmount{
		{Category: finance.ExpenseCategoryRent, Amount: decimal.NewFromInt(2000)},
		{Category: finance.ExpenseCategoryElectricity, Amount: decimal.RequireFromString("450.50")},
	})

	data, err := NewXLSXExporter().ExportProfitLoss("Dokan Paper House", pl)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{ProfitLossSheet}, f.GetSheetList())

	cell := func(axis string) string {
		v, err := f.GetCellValue(ProfitLossSheet, axis, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Dokan Paper House - Profit & Loss Statement", cell("A1"))
	assert.Equal(t, "2026-03-01 to 2026-03-31", cell("A2"))
	assert.Equal(t, "Total Sales", cell("A4"))
	assert.Equal(t, "12000", cell("B4"))
	assert.Equal(t, "Cost of Goods Sold", cell("A5"))
	assert.Equal(t, "4500", cell("B6"))
	assert.Equal(t, "Operating Expenses", cell("A8"))
	assert.Equal(t, "  Shop Rent", cell("A9"))
	assert.Equal(t, "450.5", cell("B10"))
	assert.Equal(t, "2450.5", cell("B11"))
	assert.Equal(t, "Net Profit", cell("A13"))
	assert.Equal(t, "2049.5", cell("B13"))
}

func TestXLSXExporter_ExportProfitLoss_NoShopNoExpenses(t *testing.T) {
	period := finance.Period{From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	data, err := NewXLSXExporter().ExportProfitLoss("", finance.ComputeProfitLoss(period, decimal.Zero, decimal.Zero, nil))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	title, err := f.GetCellValue(ProfitLossSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Profit & Loss Statement", title)

	net, err := f.GetCellValue(ProfitLossSheet, "A11")
	require.NoError(t, err)
	assert.Equal(t, "Net Profit", net)
}
