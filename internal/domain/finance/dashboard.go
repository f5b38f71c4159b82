package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutstandingDues are the money owed to and by the shop across all open
// sales and purchases
type OutstandingDues struct {
	Receivables decimal.Decimal
	Payables    decimal.Decimal
}

// Dashboard is the month-to-date accounting summary of a shop
type Dashboard struct {
	Period           Period
	MonthlySales     decimal.Decimal
	MonthlyPurchases decimal.Decimal
	MonthlyExpenses  decimal.Decimal
	MonthlyProfit    decimal.Decimal
	Dues             OutstandingDues
	Recent           []Transaction
}

// MonthToDate is the period from the first of today's UTC month through today
func MonthToDate(now time.Time) Period {
	today := Day(now)
	return Period{From: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), To: today}
}

// ComputeDashboard treats both purchases and operating expenses as outgoings.
// This is a cash-style view and differs from the profit and loss statement,
// which charges cost of goods sold instead of purchases.
func ComputeDashboard(period Period, sales, purchases, expenses decimal.Decimal, dues OutstandingDues, recent []Transaction) Dashboard {
	return Dashboard{
		Period:           period,
		MonthlySales:     sales,
		MonthlyPurchases: purchases,
		MonthlyExpenses:  expenses,
		MonthlyProfit:    sales.Sub(purchases.Add(expenses)),
		Dues:             dues,
		Recent:           recent,
	}
}

// TotalOutgoing is purchases plus operating expenses
func (d Dashboard) TotalOutgoing() decimal.Decimal {
	return d.MonthlyPurchases.Add(d.MonthlyExpenses)
}
