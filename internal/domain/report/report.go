// Package report holds the read models behind the shop's reports. They are
// assembled by queries, never persisted.
package report

import (
	"context"
	"time"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueEntry is one open sale or purchase
type DueEntry struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	PartyID    *uuid.UUID      `json:"party_id,omitempty"`
	PartyName  string          `json:"party_name,omitempty"`
	Date       time.Time       `json:"date"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	DueAmount  decimal.Decimal `json:"due_amount"`
}

// DueReport lists what customers owe the shop and what the shop owes suppliers
type DueReport struct {
	Receivables     []DueEntry      `json:"receivables"`
	Payables        []DueEntry      `json:"payables"`
	TotalReceivable decimal.Decimal `json:"total_receivable"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
}

// NewDueReport totals the open entries
func NewDueReport(receivables, payables []DueEntry) DueReport {
	return DueReport{
		Receivables:     receivables,
		Payables:        payables,
		TotalReceivable: sumDue(receivables),
		TotalPayable:    sumDue(payables),
	}
}

func sumDue(entries []DueEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.DueAmount)
	}
	return total.Round(2)
}

// DailySalesSummary aggregates one day's sales
type DailySalesSummary struct {
	Date          time.Time       `json:"date"`
	SaleCount     int64           `json:"sale_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalDue      decimal.Decimal `json:"total_due"`
}

// AverageSale is the mean grand total, or zero on a day without sales
func (s DailySalesSummary) AverageSale() decimal.Decimal {
	if s.SaleCount == 0 {
		return decimal.Zero
	}
	return s.TotalAmount.Div(decimal.NewFromInt(s.SaleCount)).Round(2)
}

// ValuationLine is the value of one product's stock
type ValuationLine struct {
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// CostValue is quantity at buying price
func (l ValuationLine) CostValue() decimal.Decimal {
	return l.Quantity.Mul(l.BuyingPrice).Round(2)
}

// RetailValue is quantity at selling price
func (l ValuationLine) RetailValue() decimal.Decimal {
	return l.Quantity.Mul(l.SellingPrice).Round(2)
}

// IsLowStock reports quantity <= reorder level, the same rule Stock uses
func (l ValuationLine) IsLowStock() bool {
	return l.Quantity.LessThanOrEqual(l.ReorderLevel)
}

// InventoryValuation is the shop's stock at cost and at retail
type InventoryValuation struct {
	Lines         []ValuationLine `json:"lines"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	CostValue     decimal.Decimal `json:"cost_value"`
	RetailValue   decimal.Decimal `json:"retail_value"`
	LowStockCount int             `json:"low_stock_count"`
}

// NewInventoryValuation totals the lines
func NewInventoryValuation(lines []ValuationLine) InventoryValuation {
	v := InventoryValuation{
		Lines:         lines,
		TotalQuantity: decimal.Zero,
		CostValue:     decimal.Zero,
		RetailValue:   decimal.Zero,
	}
	for _, l := range lines {
		v.TotalQuantity = v.TotalQuantity.Add(l.Quantity)
		v.CostValue = v.CostValue.Add(l.CostValue())
		v.RetailValue = v.RetailValue.Add(l.RetailValue())
		if l.IsLowStock() {
			v.LowStockCount++
		}
	}
	return v
}

// PotentialProfit is retail value minus cost value
func (v InventoryValuation) PotentialProfit() decimal.Decimal {
	return v.RetailValue.Sub(v.CostValue)
}

// IncomeLine is one sale in an income report
type IncomeLine struct {
	SaleID        uuid.UUID       `json:"sale_id"`
	InvoiceNumber string          `json:"invoice_number"`
	SaleDate      time.Time       `json:"sale_date"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
}

// IncomeReport lists the sales of a period
type IncomeReport struct {
	Period finance.Period  `json:"period"`
	Sales  []IncomeLine    `json:"sales"`
	Total  decimal.Decimal `json:"total"`
}

// ExpenseReport combines purchase spending with operating expenses
type ExpenseReport struct {
	Period        finance.Period           `json:"period"`
	PurchaseTotal decimal.Decimal          `json:"purchase_total"`
	ExpenseTotal  decimal.Decimal          `json:"expense_total"`
	ByCategory    []finance.CategoryAmount `json:"by_category"`
	Total         decimal.Decimal          `json:"total"`
}

// NewExpenseReport totals purchases and categorized expenses
func NewExpenseReport(period finance.Period, purchases decimal.Decimal, byCategory []finance.CategoryAmount) ExpenseReport {
	expenses := decimal.Zero
	for _, c := range byCategory {
		expenses = expenses.Add(c.Amount)
	}
	return ExpenseReport{
		Period:        period,
		PurchaseTotal: purchases.Round(2),
		ExpenseTotal:  expenses.Round(2),
		ByCategory:    byCategory,
		Total:         purchases.Add(expenses).Round(2),
	}
}

// CustomerSummary is a customer's lifetime trade with the shop
type CustomerSummary struct {
	CustomerID     uuid.UUID       `json:"customer_id"`
	SaleCount      int64           `json:"sale_count"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalDue       decimal.Decimal `json:"total_due"`
}

// Reader runs the report queries
type Reader interface {
	OpenSales(ctx context.Context, tenantID uuid.UUID) ([]DueEntry, error)
	OpenPurchases(ctx context.Context, tenantID uuid.UUID) ([]DueEntry, error)
	DailySales(ctx context.Context, tenantID uuid.UUID, day time.Time) (DailySalesSummary, error)
	Valuation(ctx context.Context, tenantID uuid.UUID) ([]ValuationLine, error)
	IncomeLines(ctx context.Context, tenantID uuid.UUID, period finance.Period) ([]IncomeLine, error)
	CustomerSummary(ctx context.Context, tenantID, customerID uuid.UUID) (CustomerSummary, error)
}
