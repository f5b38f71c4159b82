package persistence

import (
	"context"
	"fmt"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/trade"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order
func Models() []any {
	return []any{
		&identity.Organization{},
		&identity.User{},
		&catalog.Category{},
		&catalog.Unit{},
		&catalog.GSMType{},
		&catalog.PaperSize{},
		&catalog.Product{},
		&inventory.Stock{},
		&inventory.StockMovement{},
		&inventory.StockAlert{},
		&trade.Customer{},
		&trade.Supplier{},
		&trade.Purchase{},
		&trade.PurchaseItem{},
		&trade.SupplierPayment{},
		&trade.Sale{},
		&trade.SaleItem{},
		&trade.Payment{},
		&finance.Expense{},
		&finance.Transaction{},
		&finance.DailyCashFlow{},
		&documentSequence{},
	}
}

// uniqueIndexes are the per-tenant uniqueness rules the ledger depends on
var uniqueIndexes = []struct {
	name, table, columns string
}{
	{"ux_products_tenant_sku", "products", "tenant_id, sku"},
	{"ux_stocks_tenant_product", "stocks", "tenant_id, product_id"},
	{"ux_purchases_tenant_number", "purchases", "tenant_id, purchase_number"},
	{"ux_sales_tenant_invoice", "sales", "tenant_id, invoice_number"},
	{"ux_daily_cash_flows_tenant_date", "daily_cash_flows", "tenant_id, date"},
}

// AutoMigrate creates or updates the schema from the domain models. Production
// PostgreSQL deployments run the SQL migrations instead; this path serves
// SQLite installs and tests.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, ix := range uniqueIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)", ix.name, ix.table, ix.columns)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", ix.name, err)
		}
	}
	return nil
}
