package finance

import (
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Period is an inclusive range of calendar days
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewPeriod normalizes both ends to UTC days. A zero From defaults to the
// first day of To's month and a zero To defaults to today.
func NewPeriod(from, to time.Time, now time.Time) (Period, error) {
	if to.IsZero() {
		to = now
	}
	to = Day(to)
	if from.IsZero() {
		from = time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	from = Day(from)
	if from.After(to) {
		return Period{}, shared.NewValidationError(shared.CodeInvalidInput, "Start date must not be after end date")
	}
	return Period{From: from, To: to}, nil
}

// End is the exclusive upper bound, midnight after To
func (p Period) End() time.Time {
	return p.To.AddDate(0, 0, 1)
}

// CategoryAmount is a total for one expense category
type CategoryAmount struct {
	Category ExpenseCategory `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// ProfitLoss is the profit and loss statement of a period
type ProfitLoss struct {
	Period             Period
	TotalSales         decimal.Decimal
	CostOfGoodsSold    decimal.Decimal
	GrossProfit        decimal.Decimal
	OperatingExpenses  decimal.Decimal
	NetProfit          decimal.Decimal
	ExpensesByCategory []CategoryAmount
}

// ComputeProfitLoss derives gross and net profit from the period totals
func ComputeProfitLoss(period Period, totalSales, cogs decimal.Decimal, byCategory []CategoryAmount) ProfitLoss {
	opex := decimal.Zero
	for _, c := range byCategory {
		opex = opex.Add(c.Amount)
	}
	gross := totalSales.Sub(cogs)
	return ProfitLoss{
		Period:             period,
		TotalSales:         totalSales,
		CostOfGoodsSold:    cogs,
		GrossProfit:        gross,
		OperatingExpenses:  opex,
		NetProfit:          gross.Sub(opex),
		ExpensesByCategory: byCategory,
	}
}

// GrossMargin returns gross profit as a percentage of sales, 0 without sales
func (p ProfitLoss) GrossMargin() decimal.Decimal {
	if p.TotalSales.IsZero() {
		return decimal.Zero
	}
	return p.GrossProfit.Div(p.TotalSales).Mul(decimal.NewFromInt(100)).Round(2)
}
