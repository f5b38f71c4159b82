package finance

import (
	"time"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashFlowResponse represents one day of cash flow in API responses
type CashFlowResponse struct {
	ID             uuid.UUID       `json:"id"`
	Date           string          `json:"date"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Notes          string          `json:"notes"`
	IsClosed       bool            `json:"is_closed"`
	ClosedBy       *uuid.UUID      `json:"closed_by,omitempty"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CloseDayRequest represents a request to close a day's cash flow
type CloseDayRequest struct {
	Date  string `json:"date" binding:"required,datetime=2006-01-02"`
	Notes string `json:"notes" binding:"max=2000"`
}

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	Description string          `json:"description" binding:"required,max=2000"`
	ExpenseDate *time.Time      `json:"expense_date"`
}

// UpdateExpenseRequest represents a request to change an expense.
// Nil fields keep their current value.
type UpdateExpenseRequest struct {
	Category    *string          `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	ExpenseDate *time.Time       `json:"expense_date"`
}

// ExpenseListFilter represents filter options for expense lists
type ExpenseListFilter struct {
	Search   string     `form:"search"`
	Category string     `form:"category"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID           uuid.UUID       `json:"id"`
	Category     string          `json:"category"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	ExpenseDate  string          `json:"expense_date"`
	HasReceipt   bool            `json:"has_receipt"`
	CreatedBy    *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ExpenseCategoryOption is one selectable expense category
type ExpenseCategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ReceiptURLResponse is a short-lived link to an expense receipt
type ReceiptURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

const dateLayout = "2006-01-02"

// ToCashFlowResponse converts a domain DailyCashFlow to CashFlowResponse
func ToCashFlowResponse(c *finance.DailyCashFlow) CashFlowResponse {
	return CashFlowResponse{
		ID:             c.ID,
		Date:           c.Date.Format(dateLayout),
		OpeningBalance: c.OpeningBalance,
		TotalIncome:    c.TotalIncome,
		TotalExpense:   c.TotalExpense,
		ClosingBalance: c.ClosingBalance,
		Notes:          c.Notes,
		IsClosed:       c.IsClosed,
		ClosedBy:       c.ClosedBy,
		ClosedAt:       c.ClosedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToExpenseResponse converts a domain Expense to ExpenseResponse
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:           e.ID,
		Category:     string(e.Category),
		CategoryName: e.Category.DisplayName(),
		Amount:       e.Amount,
		Description:  e.Description,
		ExpenseDate:  e.ExpenseDate.Format(dateLayout),
		HasReceipt:   e.ReceiptKey != "",
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		Version:      e.Version,
	}
}

// CreateTransactionRequest represents a request to record a ledger entry
type CreateTransactionRequest struct {
	Type            string          `json:"type" binding:"required,oneof=income expense"`
	Category        string          `json:"category" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"gt=0"`
	Description     string          `json:"description" binding:"required,max=2000"`
	Reference       string          `json:"reference" binding:"omitempty,max=100"`
	TransactionDate *time.Time      `json:"transaction_date"`
}

// TransactionListFilter represents filter options for ledger listings
type TransactionListFilter struct {
	Search   string     `form:"search"`
	Type     string     `form:"type"`
	Category string     `form:"category"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	CategoryName    string          `json:"category_name"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference,omitempty"`
	TransactionDate string          `json:"transaction_date"`
	CreatedBy       *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransactionPage is one page of ledger entries with its totals
type TransactionPage struct {
	Items        []TransactionResponse `json:"items"`
	TotalIncome  decimal.Decimal       `json:"total_income"`
	TotalExpense decimal.Decimal       `json:"total_expense"`
	Net          decimal.Decimal       `json:"net"`
}

// TransactionOption is one selectable ledger type or category
type TransactionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TransactionOptions lists the selectable ledger types and categories
type TransactionOptions struct {
	Types      []TransactionOption `json:"types"`
	Categories []TransactionOption `json:"categories"`
}

// DashboardResponse is the month-to-date accounting summary
type DashboardResponse struct {
	From               string                `json:"from"`
	To                 string                `json:"to"`
	MonthlySales       decimal.Decimal       `json:"monthly_sales"`
	MonthlyPurchases   decimal.Decimal       `json:"monthly_purchases"`
	MonthlyExpenses    decimal.Decimal       `json:"monthly_expenses"`
	TotalOutgoing      decimal.Decimal       `json:"total_outgoing"`
	MonthlyProfit      decimal.Decimal       `json:"monthly_profit"`
	Receivables        decimal.Decimal       `json:"receivables"`
	Payables           decimal.Decimal       `json:"payables"`
	RecentTransactions []TransactionResponse `json:"recent_transactions"`
}

// ToTransactionResponse converts a domain Transaction to TransactionResponse
func ToTransactionResponse(t *finance.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Type:            string(t.Type),
		Category:        string(t.Category),
		CategoryName:    t.Category.DisplayName(),
		Amount:          t.Amount,
		Description:     t.Description,
		Reference:       t.Reference,
		TransactionDate: t.TransactionDate.Format(dateLayout),
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}

// ToDashboardResponse converts a computed Dashboard
func ToDashboardResponse(d finance.Dashboard) DashboardResponse {
	recent := make([]TransactionResponse, len(d.Recent))
	for i := range d.Recent {
		recent[i] = ToTransactionResponse(&d.Recent[i])
	}
	return DashboardResponse{
		From:               d.Period.From.Format(dateLayout),
		To:                 d.Period.To.Format(dateLayout),
		MonthlySales:       d.MonthlySales,
		MonthlyPurchases:   d.MonthlyPurchases,
		MonthlyExpenses:    d.MonthlyExpenses,
		TotalOutgoing:      d.TotalOutgoing(),
		MonthlyProfit:      d.MonthlyProfit,
		Receivables:        d.Dues.Receivables,
		Payables:           d.Dues.Payables,
		RecentTransactions: recent,
	}
}
