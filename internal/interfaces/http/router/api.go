package router

import (
	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/interfaces/http/handler"
	"github.com/dokan/papershop/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the endpoint implementations mounted under /api/v1
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Settings   *handler.OrganizationHandler
	Products   *handler.ProductHandler
	Categories *handler.CategoryHandler
	Reference  *handler.ReferenceHandler
	Parties    *handler.PartyHandler
	Sales      *handler.SaleHandler
	Purchases  *handler.PurchaseHandler
	Inventory  *handler.InventoryHandler
	CashFlow   *handler.CashFlowHandler
	Expenses   *handler.ExpenseHandler
	Accounting *handler.AccountingHandler
	Reports    *handler.ReportHandler
}

// Guards are the cross-cutting middleware of the API. Only Authenticate is
// required.
type Guards struct {
	Authenticate   gin.HandlerFunc
	SpanAttributes gin.HandlerFunc
	Idempotent     gin.HandlerFunc
	AuthRateLimit  gin.HandlerFunc
}

// Groups builds the domain route groups of the ledger API
func Groups(h Handlers, g Guards) []RouteRegistrar {
	idem := g.Idempotent

	public := NewDomainGroup("auth", "/auth").Use(g.AuthRateLimit).
		POST("/register", h.Auth.Register).
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh)

	session := NewDomainGroup("session", "/auth").Use(g.Authenticate, g.SpanAttributes).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me)

	protected := func(name, prefix string, guard gin.HandlerFunc) *DomainGroup {
		return NewDomainGroup(name, prefix).Use(g.Authenticate, g.SpanAttributes, guard)
	}

	users := protected("users", "/users", middleware.RequireModule(identity.ModuleUsers)).
		POST("", h.Users.Create).
		GET("", h.Users.List).
		PUT("/:id/role", h.Users.ChangeRole).
		DELETE("/:id", h.Users.Deactivate)

	settings := protected("settings", "/organization", middleware.RequireModule(identity.ModuleUsers)).
		GET("", h.Settings.Get).
		PUT("", h.Settings.Update)

	products := protected("products", "/products", middleware.RequireModule(identity.ModuleProducts)).
		POST("", idem, h.Products.Create).
		GET("", h.Products.List).
		GET("/:id", h.Products.GetByID).
		PUT("/:id", h.Products.Update).
		DELETE("/:id", h.Products.Deactivate)

	categories := protected("categories", "/categories", middleware.RequireModule(identity.ModuleProducts)).
		POST("", idem, h.Categories.Create).
		GET("", h.Categories.List).
		GET("/:id", h.Categories.GetByID)

	reference := protected("reference", "/reference", middleware.RequireModule(identity.ModuleProducts)).
		GET("", h.Reference.GetAll).
		GET("/units", h.Reference.ListUnits).
		POST("/units", h.Reference.CreateUnit).
		GET("/gsm-types", h.Reference.ListGSMTypes).
		POST("/gsm-types", h.Reference.CreateGSMType).
		GET("/paper-sizes", h.Reference.ListPaperSizes).
		POST("/paper-sizes", h.Reference.CreatePaperSize)

	customers := protected("customers", "/customers", middleware.RequireAnyModule(identity.ModuleTrade, identity.ModulePOS)).
		POST("", idem, h.Parties.CreateCustomer).
		GET("", h.Parties.ListCustomers).
		GET("/:id", h.Parties.GetCustomer)

	suppliers := protected("suppliers", "/suppliers", middleware.RequireModule(identity.ModuleTrade)).
		POST("", idem, h.Parties.CreateSupplier).
		GET("", h.Parties.ListSuppliers).
		GET("/:id", h.Parties.GetSupplier)

	sales := protected("sales", "/sales", middleware.RequireAnyModule(identity.ModuleTrade, identity.ModulePOS)).
		POST("", idem, h.Sales.Create).
		GET("", h.Sales.List).
		GET("/:id", h.Sales.GetByID).
		POST("/:id/payments", idem, h.Sales.ApplyPayment).
		GET("/:id/payments", h.Sales.ListPayments).
		GET("/:id/invoice", h.Sales.Invoice)

	purchases := protected("purchases", "/purchases", middleware.RequireModule(identity.ModuleTrade)).
		POST("", idem, h.Purchases.Create).
		GET("", h.Purchases.List).
		GET("/:id", h.Purchases.GetByID).
		POST("/:id/payments", idem, h.Purchases.ApplyPayment).
		GET("/:id/payments", h.Purchases.ListPayments)

	inventory := protected("inventory", "/inventory", middleware.RequireModule(identity.ModuleInventory)).
		POST("/adjust", idem, h.Inventory.Adjust).
		GET("", h.Inventory.List).
		GET("/low-stock", h.Inventory.ListLowStock).
		GET("/movements", h.Inventory.ListMovements).
		GET("/alerts", h.Inventory.ListAlerts).
		POST("/alerts/read", h.Inventory.MarkAlertsRead).
		GET("/products/:id", h.Inventory.GetByProduct).
		PUT("/products/:id/reorder-level", h.Inventory.SetReorderLevel)

	cashflow := protected("cashflow", "/cashflow", middleware.RequireModule(identity.ModuleAccounting)).
		GET("", h.CashFlow.List).
		GET("/daily", h.CashFlow.Daily).
		POST("/close", h.CashFlow.Close)

	accounting := protected("accounting", "/accounting", middleware.RequireModule(identity.ModuleAccounting)).
		GET("/dashboard", h.Accounting.Dashboard).
		GET("/transactions/categories", h.Accounting.Categories).
		POST("/transactions", idem, h.Accounting.CreateTransaction).
		GET("/transactions", h.Accounting.ListTransactions).
		GET("/transactions/:id", h.Accounting.GetTransaction)

	expenses := protected("expenses", "/expenses", middleware.RequireModule(identity.ModuleExpenses)).
		GET("/categories", h.Expenses.Categories).
		POST("", idem, h.Expenses.Create).
		GET("", h.Expenses.List).
		GET("/:id", h.Expenses.GetByID).
		PUT("/:id", h.Expenses.Update).
		DELETE("/:id", h.Expenses.Delete).
		POST("/:id/receipt", h.Expenses.UploadReceipt).
		GET("/:id/receipt", h.Expenses.ReceiptURL)

	reports := protected("reports", "/reports", middleware.RequireModule(identity.ModuleReports)).
		GET("/profit-loss", h.Reports.ProfitLoss).
		GET("/due", h.Reports.Due).
		GET("/daily-sales", h.Reports.DailySales).
		GET("/income", h.Reports.Income).
		GET("/expense", h.Reports.Expense).
		GET("/inventory-valuation", h.Reports.InventoryValuation)

	return []RouteRegistrar{
		public, session, users, settings, products, categories, reference, customers,
		suppliers, sales, purchases, inventory, cashflow, accounting, expenses, reports,
	}
}
