package finance_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	appfinance "github.com/dokan/papershop/internal/application/finance"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/infrastructure/persistence"
	"github.com/dokan/papershop/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseService_Categories(t *testing.T) {
	f := newFinanceFixture(t)
	categories := f.expenses.Categories()
	require.NotEmpty(t, categories)
	assert.Equal(t, "rent", categories[0].Value)
	assert.Equal(t, "Shop Rent", categories[0].Label)
}

func TestExpenseService_Create(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	created := f.spend(t, "packaging", 120, "  Carton boxes  ", ledgerDay)
	assert.Equal(t, "packaging", created.Category)
	assert.Equal(t, "Packaging Materials", created.CategoryName)
	assert.Equal(t, "Carton boxes", created.Description)
	assert.Equal(t, "2026-03-05", created.ExpenseDate)
	assert.False(t, created.HasReceipt)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, f.userID, *created.CreatedBy)

	tests := []struct {
		name string
		req  appfinance.CreateExpenseRequest
	}{
		{"unknown category", appfinance.CreateExpenseRequest{Category: "lottery", Amount: decimal.NewFromInt(5), Description: "x"}},
		{"zero amount", appfinance.CreateExpenseRequest{Category: "rent", Amount: decimal.Zero, Description: "x"}},
		{"blank description", appfinance.CreateExpenseRequest{Category: "rent", Amount: decimal.NewFromInt(5), Description: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.expenses.Create(ctx, f.tenantID, f.userID, tt.req)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
		})
	}
}

func TestExpenseService_Update(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	created := f.spend(t, "salary", 5000, "Helper salary", ledgerDay)

	amount := decimal.RequireFromString("5250.50")
	category := "other"
	updated, err := f.expenses.Update(ctx, f.tenantID, created.ID, appfinance.UpdateExpenseRequest{Amount: &amount, Category: &category})
	require.NoError(t, err)
	assertDecimal(t, "5250.50", updated.Amount)
	assert.Equal(t, "other", updated.Category)
	assert.Equal(t, "Helper salary", updated.Description, "unset fields keep their value")
	assert.Equal(t, created.Version+1, updated.Version)

	bad := decimal.NewFromInt(-1)
	_, err = f.expenses.Update(ctx, f.tenantID, created.ID, appfinance.UpdateExpenseRequest{Amount: &bad})
	assert.True(t, shared.IsValidation(err))

	_, err = f.expenses.Update(ctx, uuid.New(), created.ID, appfinance.UpdateExpenseRequest{Amount: &amount})
	assert.True(t, shared.IsNotFound(err))
}

func TestExpenseService_List(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	f.spend(t, "rent", 8000, "March rent", ledgerDay)
	f.spend(t, "electricity", 900, "Meter bill", ledgerDay.AddDate(0, 0, 1))
	f.spend(t, "electricity", 700, "Meter bill", ledgerDay.AddDate(0, 0, -10))
	_, err := f.expenses.Create(ctx, uuid.New(), f.userID, appfinance.CreateExpenseRequest{
		Category: "rent", Amount: decimal.NewFromInt(1), Description: "Other shop",
	})
	require.NoError(t, err)

	all, total, err := f.expenses.List(ctx, f.tenantID, appfinance.ExpenseListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "2026-03-06", all[0].ExpenseDate, "newest first")

	_, total, err = f.expenses.List(ctx, f.tenantID, appfinance.ExpenseListFilter{Category: "electricity"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	from, to := ledgerDay, ledgerDay.AddDate(0, 0, 1)
	ranged, total, err := f.expenses.List(ctx, f.tenantID, appfinance.ExpenseListFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "to is inclusive")
	for _, e := range ranged {
		assert.NotEqual(t, "2026-02-23", e.ExpenseDate)
	}

	_, total, err = f.expenses.List(ctx, f.tenantID, appfinance.ExpenseListFilter{Search: "rent"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestExpenseService_Receipts(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	expense := f.spend(t, "maintenance", 350, "Fan repair", ledgerDay)

	t.Run("rejects unsupported type", func(t *testing.T) {
		_, err := f.expenses.UploadReceipt(ctx, f.tenantID, expense.ID, "text/plain", []byte("hello"))
		require.Error(t, err)
		assert.Equal(t, "INVALID_FILE_TYPE", shared.CodeOf(err))
	})

	t.Run("rejects empty and oversize files", func(t *testing.T) {
		_, err := f.expenses.UploadReceipt(ctx, f.tenantID, expense.ID, "image/png", nil)
		assert.Equal(t, "INVALID_FILE", shared.CodeOf(err))

		_, err = f.expenses.UploadReceipt(ctx, f.tenantID, expense.ID, "image/png", bytes.Repeat([]byte{1}, appfinance.MaxReceiptSize+1))
		assert.Equal(t, "INVALID_FILE", shared.CodeOf(err))
		assert.Zero(t, f.storage.Len())
	})

	t.Run("no receipt yet", func(t *testing.T) {
		_, err := f.expenses.ReceiptURL(ctx, f.tenantID, expense.ID)
		assert.True(t, shared.IsNotFound(err))
	})

	resp, err := f.expenses.UploadReceipt(ctx, f.tenantID, expense.ID, "image/jpeg; charset=binary", []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, resp.HasReceipt)
	require.Equal(t, 1, f.storage.Len())

	stored, err := persistence.NewGormExpenseRepository(f.db).FindByIDForTenant(testutil.TenantContext(f.tenantID), f.tenantID, expense.ID)
	require.NoError(t, err)
	firstKey := stored.ReceiptKey
	assert.True(t, strings.HasPrefix(firstKey, "receipts/"+f.tenantID.String()+"/"+expense.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(firstKey, ".jpg"))
	data, contentType, ok := f.storage.Get(firstKey)
	require.True(t, ok)
	assert.Equal(t, "jpeg-bytes", string(data))
	assert.Equal(t, "image/jpeg", contentType)

	link, err := f.expenses.ReceiptURL(ctx, f.tenantID, expense.ID)
	require.NoError(t, err)
	assert.Contains(t, link.URL, firstKey)
	assert.False(t, link.ExpiresAt.IsZero())

	t.Run("replacing removes the previous object", func(t *testing.T) {
		_, err := f.expenses.UploadReceipt(ctx, f.tenantID, expense.ID, "application/pdf", []byte("%PDF-1.4"))
		require.NoError(t, err)
		assert.Equal(t, 1, f.storage.Len())
		_, _, ok := f.storage.Get(firstKey)
		assert.False(t, ok)
	})

	t.Run("another shop cannot read it", func(t *testing.T) {
		_, err := f.expenses.ReceiptURL(ctx, uuid.New(), expense.ID)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("deleting the expense removes the receipt", func(t *testing.T) {
		require.NoError(t, f.expenses.Delete(ctx, f.tenantID, expense.ID))
		assert.Zero(t, f.storage.Len())
		_, err := f.expenses.GetByID(ctx, f.tenantID, expense.ID)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestExpenseService_ReceiptsWithoutStorage(t *testing.T) {
	f := newFinanceFixture(t)
	service := appfinance.NewExpenseService(persistence.NewGormExpenseRepository(f.db))
	expense := f.spend(t, "water", 60, "WASA bill", ledgerDay)

	_, err := service.UploadReceipt(context.Background(), f.tenantID, expense.ID, "image/png", []byte{1})
	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))
	_, err = service.ReceiptURL(context.Background(), f.tenantID, expense.ID)
	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))

	require.NoError(t, service.Delete(context.Background(), f.tenantID, expense.ID))
}
