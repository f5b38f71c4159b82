package finance

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxReceiptSize is the largest receipt upload accepted, in bytes
const MaxReceiptSize = 5 << 20

// receiptURLTTL is how long a receipt download link stays valid
const receiptURLTTL = 15 * time.Minute

var receiptTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// ReceiptStorage stores expense receipt files
type ReceiptStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// ExpenseService manages operating expenses and their receipts
type ExpenseService struct {
	expenseRepo finance.ExpenseRepository
	storage     ReceiptStorage
	logger      *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo finance.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo, logger: zap.NewNop()}
}

// SetReceiptStorage enables receipt uploads
func (s *ExpenseService) SetReceiptStorage(storage ReceiptStorage) {
	s.storage = storage
}

// SetLogger sets the logger
func (s *ExpenseService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Categories lists the expense categories in display order
func (s *ExpenseService) Categories() []ExpenseCategoryOption {
	out := make([]ExpenseCategoryOption, len(finance.ExpenseCategories))
	for i, c := range finance.ExpenseCategories {
		out[i] = ExpenseCategoryOption{Value: string(c), Label: c.DisplayName()}
	}
	return out
}

// Create records an expense
func (s *ExpenseService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	var date time.Time
	if req.ExpenseDate != nil {
		date = *req.ExpenseDate
	}
	expense, err := finance.NewExpense(tenantID, userID, finance.ExpenseCategory(req.Category), req.Amount, req.Description, date)
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// Update changes an expense
func (s *ExpenseService) Update(ctx context.Context, tenantID, expenseID uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}

	category, amount, description, date := expense.Category, expense.Amount, expense.Description, expense.ExpenseDate
	if req.Category != nil {
		category = finance.ExpenseCategory(*req.Category)
	}
	if req.Amount != nil {
		amount = *req.Amount
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.ExpenseDate != nil {
		date = *req.ExpenseDate
	}
	if err := expense.Update(category, amount, description, date); err != nil {
		return nil, err
	}
	expense.IncrementVersion()
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// Delete removes an expense and its receipt
func (s *ExpenseService) Delete(ctx context.Context, tenantID, expenseID uuid.UUID) error {
	ctx = shared.WithTenantID(ctx, tenantID)
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(ctx, tenantID, expenseID); err != nil {
		return err
	}
	if expense.ReceiptKey != "" && s.storage != nil {
		if err := s.storage.DeleteObject(ctx, expense.ReceiptKey); err != nil {
			s.logger.Warn("Failed to delete expense receipt",
				zap.String("expense_id", expenseID.String()),
				zap.String("key", expense.ReceiptKey),
				zap.Error(err),
			)
		}
	}
	return nil
}

// GetByID retrieves an expense
func (s *ExpenseService) GetByID(ctx context.Context, tenantID, expenseID uuid.UUID) (*ExpenseResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// List retrieves a page of expenses, newest first
func (s *ExpenseService) List(ctx context.Context, tenantID uuid.UUID, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	f := finance.ExpenseFilter{Filter: shared.DefaultFilter(), Category: finance.ExpenseCategory(filter.Category)}
	f.OrderBy = "expense_date"
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

	expenses, total, err := s.expenseRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = ToExpenseResponse(&expenses[i])
	}
	return out, total, nil
}

// UploadReceipt stores a receipt file for an expense, replacing any earlier one
func (s *ExpenseService) UploadReceipt(ctx context.Context, tenantID, expenseID uuid.UUID, contentType string, data []byte) (*ExpenseResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Receipt storage is not configured")
	}
	ctx = shared.WithTenantID(ctx, tenantID)

	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := receiptTypes[contentType]
	if !ok {
		return nil, shared.NewValidationError("INVALID_FILE_TYPE", "Receipt must be a JPEG, PNG, WebP image or a PDF")
	}
	if len(data) == 0 {
		return nil, shared.NewValidationError("INVALID_FILE", "Receipt file is empty")
	}
	if len(data) > MaxReceiptSize {
		return nil, shared.NewValidationError("INVALID_FILE", fmt.Sprintf("Receipt cannot exceed %d MB", MaxReceiptSize>>20))
	}

	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}

	key := path.Join("receipts", tenantID.String(), expenseID.String(), uuid.NewString()+ext)
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("upload receipt: %w", err)
	}
	previous := expense.ReceiptKey
	expense.AttachReceipt(key)
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	if previous != "" {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete replaced receipt", zap.String("key", previous), zap.Error(err))
		}
	}

	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// ReceiptURL returns a short-lived download link for an expense receipt
func (s *ExpenseService) ReceiptURL(ctx context.Context, tenantID, expenseID uuid.UUID) (*ReceiptURLResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Receipt storage is not configured")
	}
	ctx = shared.WithTenantID(ctx, tenantID)
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptKey == "" {
		return nil, shared.NewNotFoundError("Receipt")
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, expense.ReceiptKey, receiptURLTTL)
	if err != nil {
		return nil, fmt.Errorf("receipt url: %w", err)
	}
	return &ReceiptURLResponse{URL: url, ExpiresAt: expiresAt}, nil
}
