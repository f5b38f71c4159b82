package finance

import (
	"context"
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseFilter narrows expense listings
type ExpenseFilter struct {
	shared.Filter
	Category ExpenseCategory
}

// ExpenseRepository persists expenses
type ExpenseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Expense, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ExpenseFilter) ([]Expense, int64, error)
	Save(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// TransactionFilter narrows ledger entry listings. Empty fields match all.
type TransactionFilter struct {
	shared.Filter
	Type     TransactionType
	Category TransactionCategory
}

// TransactionRepository persists manual ledger entries
type TransactionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]Transaction, int64, error)
	Save(ctx context.Context, tx *Transaction) error
}

// CashFlowRepository persists daily cash flow rows
type CashFlowRepository interface {
	FindByDate(ctx context.Context, tenantID uuid.UUID, day time.Time) (*DailyCashFlow, error)
	FindRange(ctx context.Context, tenantID uuid.UUID, period Period) ([]DailyCashFlow, error)
	// Upsert inserts the row or overwrites the computed columns of the row
	// already stored for (tenant, date)
	Upsert(ctx context.Context, row *DailyCashFlow) error
	Save(ctx context.Context, row *DailyCashFlow) error
}

// LedgerReader sums transaction activity for reporting
type LedgerReader interface {
	DayActivity(ctx context.Context, tenantID uuid.UUID, day time.Time) (DayActivity, error)
	TotalSales(ctx context.Context, tenantID uuid.UUID, period Period) (decimal.Decimal, error)
	CostOfGoodsSold(ctx context.Context, tenantID uuid.UUID, period Period) (decimal.Decimal, error)
	TotalPurchases(ctx context.Context, tenantID uuid.UUID, period Period) (decimal.Decimal, error)
	ExpensesByCategory(ctx context.Context, tenantID uuid.UUID, period Period) ([]CategoryAmount, error)
	TotalExpenses(ctx context.Context, tenantID uuid.UUID, period Period) (decimal.Decimal, error)
	OutstandingDues(ctx context.Context, tenantID uuid.UUID) (OutstandingDues, error)
}
