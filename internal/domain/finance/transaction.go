package finance

import (
	"strings"
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a manual ledger entry
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid checks if the type is income or expense
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// TransactionCategory classifies a manual ledger entry
type TransactionCategory string

const (
	TransactionCategorySale            TransactionCategory = "sale"
	TransactionCategoryPurchase        TransactionCategory = "purchase"
	TransactionCategoryPaymentReceived TransactionCategory = "payment_received"
	TransactionCategoryPaymentMade     TransactionCategory = "payment_made"
	TransactionCategorySalary          TransactionCategory = "salary"
	TransactionCategoryRent            TransactionCategory = "rent"
	TransactionCategoryUtility         TransactionCategory = "utility"
	TransactionCategoryTransport       TransactionCategory = "transport"
	TransactionCategoryOther           TransactionCategory = "other"
)

// TransactionCategories lists every category in display order
var TransactionCategories = []TransactionCategory{
	TransactionCategorySale,
	TransactionCategoryPurchase,
	TransactionCategoryPaymentReceived,
	TransactionCategoryPaymentMade,
	TransactionCategorySalary,
	TransactionCategoryRent,
	TransactionCategoryUtility,
	TransactionCategoryTransport,
	TransactionCategoryOther,
}

var transactionCategoryNames = map[TransactionCategory]string{
	TransactionCategorySale:            "Sale",
	TransactionCategoryPurchase:        "Purchase",
	TransactionCategoryPaymentReceived: "Payment Received",
	TransactionCategoryPaymentMade:     "Payment Made",
	TransactionCategorySalary:          "Salary",
	TransactionCategoryRent:            "Rent",
	TransactionCategoryUtility:         "Utility Bill",
	TransactionCategoryTransport:       "Transport",
	TransactionCategoryOther:           "Other",
}

// IsValid checks if the category is a known TransactionCategory
func (c TransactionCategory) IsValid() bool {
	_, ok := transactionCategoryNames[c]
	return ok
}

// DisplayName returns a human-readable name for the category
func (c TransactionCategory) DisplayName() string {
	if name, ok := transactionCategoryNames[c]; ok {
		return name
	}
	return string(c)
}

// Transaction is a manual entry in the shop's income and expense ledger.
// It is a record only: it does not feed the cash flow rollup, which is
// derived from sales, purchases and expenses.
type Transaction struct {
	shared.TenantAggregateRoot
	Type            TransactionType     `gorm:"column:transaction_type;type:varchar(20);not null;index"`
	Category        TransactionCategory `gorm:"type:varchar(30);not null;index"`
	Amount          decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Description     string              `gorm:"type:text;not null"`
	Reference       string              `gorm:"type:varchar(100)"`
	TransactionDate time.Time           `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction records a ledger entry dated to the UTC day of date, today
// when date is zero.
func NewTransaction(tenantID, createdBy uuid.UUID, kind TransactionType, category TransactionCategory, amount decimal.Decimal, description, reference string, date time.Time) (*Transaction, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("INVALID_TRANSACTION_TYPE", "Transaction type must be income or expense")
	}
	if !category.IsValid() {
		return nil, shared.NewValidationError("INVALID_CATEGORY", "Unknown transaction category: "+string(category))
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError(shared.CodeInvalidAmount, "Transaction amount must be positive")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewValidationError(shared.CodeValidation, "Transaction description cannot be empty")
	}
	reference = strings.TrimSpace(reference)
	if len(reference) > 100 {
		return nil, shared.NewValidationError(shared.CodeValidation, "Reference cannot exceed 100 characters")
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &Transaction{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		Type:                kind,
		Category:            category,
		Amount:              amount.Round(2),
		Description:         description,
		Reference:           reference,
		TransactionDate:     Day(date),
	}, nil
}

// Signed is the amount with expenses negated
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
