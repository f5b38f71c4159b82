package persistence

import (
	"context"
	"time"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerReader sums sale, purchase and expense activity for the cash
// flow rollup and the profit and loss statement.
type GormLedgerReader struct {
	db *gorm.DB
}

// NewGormLedgerReader creates a new GormLedgerReader
func NewGormLedgerReader(db *gorm.DB) *GormLedgerReader {
	return &GormLedgerReader{db: db}
}

type sumRow struct {
	Total decimal.Decimal
}

// sum evaluates COALESCE(SUM(expr), 0) over the rows of model in
// [from, to) on dateColumn. SQLite may hand back a float, so the result is
// rounded to cents.
func (r *GormLedgerReader) sum(ctx context.Context, model any, expr, dateColumn string, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).Model(model).
		Select("COALESCE(SUM("+expr+"), 0) AS total").
		Where("tenant_id = ? AND "+dateColumn+" >= ? AND "+dateColumn+" < ?", tenantID, from, to).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total.Round(2), nil
}

// DayActivity sums the money that moved on one UTC day
func (r *GormLedgerReader) DayActivity(ctx context.Context, tenantID uuid.UUID, day time.Time) (finance.DayActivity, error) {
	from := finance.Day(day)
	to := from.AddDate(0, 0, 1)

	received, err := r.sum(ctx, &trade.Sale{}, "paid_amount", "sale_date", tenantID, from, to)
	if err != nil {
		return finance.DayActivity{}, err
	}
	paid, err := r.sum(ctx, &trade.Purchase{}, "paid_amount", "purchase_date", tenantID, from, to)
	if err != nil {
		return finance.DayActivity{}, err
	}
	spent, err := r.sum(ctx, &finance.Expense{}, "amount", "expense_date", tenantID, from, to)
	if err != nil {
		return finance.DayActivity{}, err
	}
	return finance.DayActivity{SalesReceived: received, PurchasesPaid: paid, ExpensesIncurred: spent}, nil
}

// TotalSales sums sale grand totals over period
func (r *GormLedgerReader) TotalSales(ctx context.Context, tenantID uuid.UUID, period finance.Period) (decimal.Decimal, error) {
	return r.sum(ctx, &trade.Sale{}, "grand_total", "sale_date", tenantID, period.From, period.End())
}

// TotalPurchases sums purchase grand totals over period
func (r *GormLedgerReader) TotalPurchases(ctx context.Context, tenantID uuid.UUID, period finance.Period) (decimal.Decimal, error) {
	return r.sum(ctx, &trade.Purchase{}, "grand_total", "purchase_date", tenantID, period.From, period.End())
}

// CostOfGoodsSold sums quantity times the cost snapshotted on each sold line.
// Lines recorded without a snapshot fall back to the product's current
// buying price.
func (r *GormLedgerReader) CostOfGoodsSold(ctx context.Context, tenantID uuid.UUID, period finance.Period) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Table("sale_items").
		Select(`COALESCE(SUM(sale_items.quantity * CASE WHEN sale_items.unit_cost > 0
			THEN sale_items.unit_cost ELSE COALESCE(products.buying_price, 0) END), 0) AS total`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("LEFT JOIN products ON products.id = sale_items.product_id").
		Where("sales.tenant_id = ? AND sales.sale_date >= ? AND sales.sale_date < ?", tenantID, period.From, period.End()).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total.Round(2), nil
}

// ExpensesByCategory sums expense amounts per category over period
func (r *GormLedgerReader) ExpensesByCategory(ctx context.Context, tenantID uuid.UUID, period finance.Period) ([]finance.CategoryAmount, error) {
	var rows []struct {
		Category finance.ExpenseCategory
		Total    decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&finance.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("tenant_id = ? AND expense_date >= ? AND expense_date < ?", tenantID, period.From, period.End()).
		Group("category").
		Order("category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]finance.CategoryAmount, 0, len(rows))
	for _, row := range rows {
		out = append(out, finance.CategoryAmount{Category: row.Category, Amount: row.Total.Round(2)})
	}
	return out, nil
}

// TotalExpenses sums operating expense amounts over period
func (r *GormLedgerReader) TotalExpenses(ctx context.Context, tenantID uuid.UUID, period finance.Period) (decimal.Decimal, error) {
	return r.sum(ctx, &finance.Expense{}, "amount", "expense_date", tenantID, period.From, period.End())
}

// OutstandingDues sums what customers still owe on sales and what the shop
// still owes on purchases, regardless of date
func (r *GormLedgerReader) OutstandingDues(ctx context.Context, tenantID uuid.UUID) (finance.OutstandingDues, error) {
	due := func(model any) (decimal.Decimal, error) {
		var row sumRow
		err := r.db.WithContext(ctx).Model(model).
			Select("COALESCE(SUM(due_amount), 0) AS total").
			Where("tenant_id = ? AND due_amount > 0", tenantID).
			Scan(&row).Error
		return row.Total.Round(2), err
	}
	receivables, err := due(&trade.Sale{})
	if err != nil {
		return finance.OutstandingDues{}, err
	}
	payables, err := due(&trade.Purchase{})
	if err != nil {
		return finance.OutstandingDues{}, err
	}
	return finance.OutstandingDues{Receivables: receivables, Payables: payables}, nil
}

var _ finance.LedgerReader = (*GormLedgerReader)(nil)
