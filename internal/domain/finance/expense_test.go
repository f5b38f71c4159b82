package finance

import (
	"testing"
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpense(t *testing.T) {
	date := time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC)
	e, err := NewExpense(uuid.New(), uuid.New(), ExpenseCategoryRent, decimal.RequireFromString("1500.555"), "  May rent ", date)
	require.NoError(t, err)

	assert.Equal(t, "1500.56", e.Amount.String())
	assert.Equal(t, "May rent", e.Description)
	assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), e.ExpenseDate)
	assert.Equal(t, "Shop Rent", e.Category.DisplayName())
}

func TestNewExpense_Validation(t *testing.T) {
	tenant := uuid.New()
	_, err := NewExpense(tenant, uuid.Nil, "coffee", decimal.NewFromInt(1), "x", time.Now())
	assert.True(t, shared.IsValidation(err))

	_, err = NewExpense(tenant, uuid.Nil, ExpenseCategoryOther, decimal.Zero, "x", time.Now())
	assert.Equal(t, shared.CodeInvalidAmount, shared.CodeOf(err))

	_, err = NewExpense(tenant, uuid.Nil, ExpenseCategoryOther, decimal.NewFromInt(5), " ", time.Now())
	assert.True(t, shared.IsValidation(err))
}

func TestExpenseCategories(t *testing.T) {
	assert.Len(t, ExpenseCategories, 10)
	for _, c := range ExpenseCategories {
		assert.True(t, c.IsValid())
	}
}
