package persistence

import (
	"context"
	"time"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/dokan/papershop/internal/domain/report"
	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportReader runs the read-side report queries
type GormReportReader struct {
	db *gorm.DB
}

// NewGormReportReader creates a new GormReportReader
func NewGormReportReader(db *gorm.DB) *GormReportReader {
	return &GormReportReader{db: db}
}

// OpenSales lists sales with money still owed, oldest first
func (r *GormReportReader) OpenSales(ctx context.Context, tenantID uuid.UUID) ([]report.DueEntry, error) {
	var entries []report.DueEntry
	err := r.db.WithContext(ctx).Table("sales").
		Select(`sales.id, sales.invoice_number AS number, sales.customer_id AS party_id,
			COALESCE(customers.name, '') AS party_name, sales.sale_date AS date,
			sales.grand_total, sales.paid_amount, sales.due_amount`).
		Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
		Where("sales.tenant_id = ? AND sales.due_amount > 0", tenantID).
		Order("sales.sale_date ASC").
		Scan(&entries).Error
	return entries, err
}

// OpenPurchases lists purchases the shop still owes on, oldest first
func (r *GormReportReader) OpenPurchases(ctx context.Context, tenantID uuid.UUID) ([]report.DueEntry, error) {
	var entries []report.DueEntry
	err := r.db.WithContext(ctx).Table("purchases").
		Select(`purchases.id, purchases.purchase_number AS number, purchases.supplier_id AS party_id,
			COALESCE(suppliers.name, '') AS party_name, purchases.purchase_date AS date,
			purchases.grand_total, purchases.paid_amount, purchases.due_amount`).
		Joins("LEFT JOIN suppliers ON suppliers.id = purchases.supplier_id").
		Where("purchases.tenant_id = ? AND purchases.due_amount > 0", tenantID).
		Order("purchases.purchase_date ASC").
		Scan(&entries).Error
	return entries, err
}

// DailySales aggregates one UTC day of sales
func (r *GormReportReader) DailySales(ctx context.Context, tenantID uuid.UUID, day time.Time) (report.DailySalesSummary, error) {
	from := finance.Day(day)
	var row struct {
		SaleCount     int64
		TotalAmount   decimal.Decimal
		TotalDiscount decimal.Decimal
		TotalPaid     decimal.Decimal
		TotalDue      decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&trade.Sale{}).
		Select(`COUNT(*) AS sale_count,
			COALESCE(SUM(grand_total), 0) AS total_amount,
			COALESCE(SUM(discount_amount), 0) AS total_discount,
			COALESCE(SUM(paid_amount), 0) AS total_paid,
			COALESCE(SUM(due_amount), 0) AS total_due`).
		Where("tenant_id = ? AND sale_date >= ? AND sale_date < ?", tenantID, from, from.AddDate(0, 0, 1)).
		Scan(&row).Error
	if err != nil {
		return report.DailySalesSummary{}, err
	}
	return report.DailySalesSummary{
		Date:          from,
		SaleCount:     row.SaleCount,
		TotalAmount:   row.TotalAmount.Round(2),
		TotalDiscount: row.TotalDiscount.Round(2),
		TotalPaid:     row.TotalPaid.Round(2),
		TotalDue:      row.TotalDue.Round(2),
	}, nil
}

// Valuation lists every stocked product with its prices
func (r *GormReportReader) Valuation(ctx context.Context, tenantID uuid.UUID) ([]report.ValuationLine, error) {
	var lines []report.ValuationLine
	err := r.db.WithContext(ctx).Table("stocks").
		Select(`stocks.product_id, products.sku, products.name, stocks.quantity,
			products.buying_price, products.selling_price, stocks.reorder_level`).
		Joins("JOIN products ON products.id = stocks.product_id").
		Where("stocks.tenant_id = ?", tenantID).
		Order("products.name ASC").
		Scan(&lines).Error
	return lines, err
}

// IncomeLines lists the sales of period in date order
func (r *GormReportReader) IncomeLines(ctx context.Context, tenantID uuid.UUID, period finance.Period) ([]report.IncomeLine, error) {
	var lines []report.IncomeLine
	err := r.db.WithContext(ctx).Model(&trade.Sale{}).
		Select("id AS sale_id, invoice_number, sale_date, grand_total, paid_amount").
		Where("tenant_id = ? AND sale_date >= ? AND sale_date < ?", tenantID, period.From, period.End()).
		Order("sale_date ASC, invoice_number ASC").
		Scan(&lines).Error
	return lines, err
}

// CustomerSummary totals a customer's sales and what they still owe
func (r *GormReportReader) CustomerSummary(ctx context.Context, tenantID, customerID uuid.UUID) (report.CustomerSummary, error) {
	var row struct {
		SaleCount      int64
		TotalPurchases decimal.Decimal
		TotalDue       decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&trade.Sale{}).
		Select("COUNT(*) AS sale_count, COALESCE(SUM(grand_total), 0) AS total_purchases, COALESCE(SUM(due_amount), 0) AS total_due").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Scan(&row).Error
	if err != nil {
		return report.CustomerSummary{}, err
	}
	return report.CustomerSummary{
		CustomerID:     customerID,
		SaleCount:      row.SaleCount,
		TotalPurchases: row.TotalPurchases.Round(2),
		TotalDue:       row.TotalDue.Round(2),
	}, nil
}

var _ report.Reader = (*GormReportReader)(nil)
