package finance

import (
	"context"
	"time"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecentTransactionLimit is how many ledger entries the dashboard shows
const RecentTransactionLimit = 10

// AccountingService keeps the manual income and expense ledger and builds the
// month-to-date accounting dashboard
type AccountingService struct {
	transactionRepo finance.TransactionRepository
	ledger          finance.LedgerReader
	logger          *zap.Logger
	now             func() time.Time
}

// NewAccountingService creates a new AccountingService
func NewAccountingService(transactionRepo finance.TransactionRepository, ledger finance.LedgerReader) *AccountingService {
	return &AccountingService{
		transactionRepo: transactionRepo,
		ledger:          ledger,
		logger:          zap.NewNop(),
		now:             time.Now,
	}
}

// SetLogger sets the logger
func (s *AccountingService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetClock replaces the wall clock used to find the current month
func (s *AccountingService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Categories lists the ledger entry types and categories in display order
func (s *AccountingService) Categories() TransactionOptions {
	out := TransactionOptions{
		Types: []TransactionOption{
			{Value: string(finance.TransactionTypeIncome), Label: "Income"},
			{Value: string(finance.TransactionTypeExpense), Label: "Expense"},
		},
		Categories: make([]TransactionOption, len(finance.TransactionCategories)),
	}
	for i, c := range finance.TransactionCategories {
		out.Categories[i] = TransactionOption{Value: string(c), Label: c.DisplayName()}
	}
	return out
}

// CreateTransaction records a manual ledger entry
func (s *AccountingService) CreateTransaction(ctx context.Context, tenantID, userID uuid.UUID, req CreateTransactionRequest) (*TransactionResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	var date time.Time
	if req.TransactionDate != nil {
		date = *req.TransactionDate
	}
	tx, err := finance.NewTransaction(tenantID, userID, finance.TransactionType(req.Type),
		finance.TransactionCategory(req.Category), req.Amount, req.Description, req.Reference, date)
	if err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.Info("Ledger entry recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("transaction_id", tx.ID.String()),
		zap.String("type", string(tx.Type)),
		zap.String("amount", tx.Amount.StringFixed(2)),
	)
	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// GetTransaction retrieves a ledger entry
func (s *AccountingService) GetTransaction(ctx context.Context, tenantID, id uuid.UUID) (*TransactionResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	tx, err := s.transactionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// ListTransactions retrieves a page of ledger entries with the page's income
// and expense totals
func (s *AccountingService) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter TransactionListFilter) (*TransactionPage, int64, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	if filter.Type != "" && !finance.TransactionType(filter.Type).IsValid() {
		return nil, 0, shared.NewValidationError("INVALID_TRANSACTION_TYPE", "Transaction type must be income or expense")
	}
	f := finance.TransactionFilter{
		Filter:   shared.DefaultFilter(),
		Type:     finance.TransactionType(filter.Type),
		Category: finance.TransactionCategory(filter.Category),
	}
	f.OrderBy = "transaction_date"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.From != nil {
		from := finance.Day(*filter.From)
		f.From = &from
	}
	if filter.To != nil {
		end := finance.Day(*filter.To).AddDate(0, 0, 1)
		f.To = &end
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, 0, shared.NewValidationError(shared.CodeInvalidInput, "Start date must not be after end date")
	}

	txs, total, err := s.transactionRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	page := &TransactionPage{
		Items:        make([]TransactionResponse, len(txs)),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for i := range txs {
		page.Items[i] = ToTransactionResponse(&txs[i])
		if txs[i].Type == finance.TransactionTypeIncome {
			page.TotalIncome = page.TotalIncome.Add(txs[i].Amount)
		} else {
			page.TotalExpense = page.TotalExpense.Add(txs[i].Amount)
		}
	}
	page.Net = page.TotalIncome.Sub(page.TotalExpense)
	return page, total, nil
}

// Dashboard summarizes the current month: sales, purchases and operating
// expenses to date, all outstanding dues and the latest ledger entries
func (s *AccountingService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*DashboardResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	period := finance.MonthToDate(s.now())

	sales, err := s.ledger.TotalSales(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	purchases, err := s.ledger.TotalPurchases(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	expenses, err := s.ledger.TotalExpenses(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	dues, err := s.ledger.OutstandingDues(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	recentFilter := finance.TransactionFilter{Filter: shared.DefaultFilter()}
	recentFilter.OrderBy = "transaction_date"
	recentFilter.PageSize = RecentTransactionLimit
	recent, _, err := s.transactionRepo.FindAllForTenant(ctx, tenantID, recentFilter)
	if err != nil {
		return nil, err
	}

	resp := ToDashboardResponse(finance.ComputeDashboard(period, sales, purchases, expenses, dues, recent))
	return &resp, nil
}
