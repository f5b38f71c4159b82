// Package export renders reports as spreadsheets.
package export

import (
	"fmt"

	reportapp "github.com/dokan/papershop/internal/application/report"
	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ProfitLossSheet is the worksheet name of the exported statement
const ProfitLossSheet = "Profit & Loss"

// numFmtMoney is the built-in "#,##0.00" number format
const numFmtMoney = 4

var _ reportapp.ProfitLossExporter = (*XLSXExporter)(nil)

// XLSXExporter writes reports as Office Open XML workbooks
type XLSXExporter struct{}

// NewXLSXExporter creates a new XLSXExporter
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) set(col int, value any, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellValue(w.sheet, cell, value); err != nil {
		w.err = err
		return
	}
	if style != 0 {
		w.err = w.f.SetCellStyle(w.sheet, cell, cell, style)
	}
}

func (w *sheetWriter) line(label string, amount decimal.Decimal, labelStyle, amountStyle int) {
	w.set(1, label, labelStyle)
	w.set(2, amount.Round(2).InexactFloat64(), amountStyle)
	w.row++
}

// ExportProfitLoss writes the statement to a single-sheet workbook
func (e *XLSXExporter) ExportProfitLoss(shopName string, pl finance.ProfitLoss) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ProfitLossSheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, err
	}
	moneyBold, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: ProfitLossSheet, row: 1}
	heading := "Profit & Loss Statement"
	if shopName != "" {
		heading = shopName + " - " + heading
	}
	w.set(1, heading, title)
	w.row++
	w.set(1, fmt.Sprintf("%s to %s", pl.Period.From.Format("2006-01-02"), pl.Period.To.Format("2006-01-02")), 0)
	w.row += 2

	w.line("Total Sales", pl.TotalSales, 0, money)
	w.line("Cost of Goods Sold", pl.CostOfGoodsSold, 0, money)
	w.line("Gross Profit", pl.GrossProfit, bold, moneyBold)
	w.row++

	w.set(1, "Operating Expenses", bold)
	w.row++
	for _, c := range pl.ExpensesByCategory {
		w.line("  "+c.Category.DisplayName(), c.Amount, 0, money)
	}
	w.line("Total Operating Expenses", pl.OperatingExpenses, bold, moneyBold)
	w.row++

	w.line("Net Profit", pl.NetProfit, bold, moneyBold)
	if w.err != nil {
		return nil, w.err
	}

	if err := f.SetColWidth(ProfitLossSheet, "A", "A", 34); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(ProfitLossSheet, "B", "B", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
