package finance

import (
	"strings"
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies an operating expense
type ExpenseCategory string

const (
	ExpenseCategoryRent        ExpenseCategory = "rent"
	ExpenseCategorySalary      ExpenseCategory = "salary"
	ExpenseCategoryElectricity ExpenseCategory = "electricity"
	ExpenseCategoryWater       ExpenseCategory = "water"
	ExpenseCategoryInternet    ExpenseCategory = "internet"
	ExpenseCategoryTransport   ExpenseCategory = "transport"
	ExpenseCategoryPackaging   ExpenseCategory = "packaging"
	ExpenseCategoryMaintenance ExpenseCategory = "maintenance"
	ExpenseCategoryMarketing   ExpenseCategory = "marketing"
	ExpenseCategoryOther       ExpenseCategory = "other"
)

// ExpenseCategories lists every category in display order
var ExpenseCategories = []ExpenseCategory{
	ExpenseCategoryRent,
	ExpenseCategorySalary,
	ExpenseCategoryElectricity,
	ExpenseCategoryWater,
	ExpenseCategoryInternet,
	ExpenseCategoryTransport,
	ExpenseCategoryPackaging,
	ExpenseCategoryMaintenance,
	ExpenseCategoryMarketing,
	ExpenseCategoryOther,
}

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable name for the category
func (c ExpenseCategory) DisplayName() string {
	switch c {
	case ExpenseCategoryRent:
		return "Shop Rent"
	case ExpenseCategorySalary:
		return "Staff Salary"
	case ExpenseCategoryElectricity:
		return "Electricity Bill"
	case ExpenseCategoryWater:
		return "Water Bill"
	case ExpenseCategoryInternet:
		return "Internet Bill"
	case ExpenseCategoryTransport:
		return "Transport"
	case ExpenseCategoryPackaging:
		return "Packaging Materials"
	case ExpenseCategoryMaintenance:
		return "Maintenance"
	case ExpenseCategoryMarketing:
		return "Marketing"
	case ExpenseCategoryOther:
		return "Other"
	default:
		return string(c)
	}
}

// Expense is a standalone operating expense of the shop
type Expense struct {
	shared.TenantAggregateRoot
	Category    ExpenseCategory `gorm:"type:varchar(20);not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description string          `gorm:"type:text;not null"`
	ExpenseDate time.Time       `gorm:"not null;index"`
	ReceiptKey  string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates an expense. The expense date is truncated to its UTC day.
func NewExpense(tenantID, createdBy uuid.UUID, category ExpenseCategory, amount decimal.Decimal, description string, date time.Time) (*Expense, error) {
	e := &Expense{TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy)}
	if err := e.Update(category, amount, description, date); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the editable fields of the expense
func (e *Expense) Update(category ExpenseCategory, amount decimal.Decimal, description string, date time.Time) error {
	if !category.IsValid() {
		return shared.NewValidationError("INVALID_CATEGORY", "Unknown expense category: "+string(category))
	}
	if !amount.IsPositive() {
		return shared.NewValidationError(shared.CodeInvalidAmount, "Expense amount must be positive")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewValidationError(shared.CodeValidation, "Expense description cannot be empty")
	}
	if date.IsZero() {
		date = time.Now()
	}

	e.Category = category
	e.Amount = amount.Round(2)
	e.Description = description
	e.ExpenseDate = Day(date)
	e.Touch()
	return nil
}

// AttachReceipt records the object storage key of the receipt
func (e *Expense) AttachReceipt(key string) {
	e.ReceiptKey = key
	e.Touch()
}

// Day truncates t to midnight UTC of its UTC calendar date
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
