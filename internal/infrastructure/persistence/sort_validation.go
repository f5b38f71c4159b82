package persistence

import (
	"strings"

	"github.com/dokan/papershop/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = withCommon("sku", "name", "buying_price", "selling_price")

// PartySortFields contains allowed sort fields for customers and suppliers
var PartySortFields = withCommon("name", "company", "phone")

// StockSortFields contains allowed sort fields for stock rows
var StockSortFields = withCommon("quantity", "reorder_level")

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = withCommon("movement_type", "quantity")

// PurchaseSortFields contains allowed sort fields for purchases
var PurchaseSortFields = withCommon("purchase_number", "purchase_date", "grand_total", "due_amount", "payment_status")

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = withCommon("invoice_number", "sale_date", "grand_total", "due_amount", "payment_status")

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = withCommon("expense_date", "amount", "category")

// TransactionSortFields contains allowed sort fields for ledger entries
var TransactionSortFields = withCommon("transaction_date", "amount", "category", "transaction_type")

func withCommon(fields ...string) map[string]bool {
	allowed := make(map[string]bool, len(CommonSortFields)+len(fields))
	for f := range CommonSortFields {
		allowed[f] = true
	}
	for _, f := range fields {
		allowed[f] = true
	}
	return allowed
}

// paginate applies whitelisted ordering and the filter's page window
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern that works on both
// PostgreSQL and SQLite when compared against LOWER(column).
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// findPage counts the rows matched by query and loads the requested page.
// Each step runs on its own session so neither sees the other's clauses.
func findPage[T any](query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) ([]T, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]T, 0)
	if err := paginate(query.Session(&gorm.Session{}), filter, allowed, defaultField).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
