package trade

import (
	"github.com/shopspring/decimal"
)

// PaymentStatus is derived from grand total and paid amount; it is never set directly
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
)

// PaymentMethod is how money changed hands
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodMobile PaymentMethod = "mobile"
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodCredit PaymentMethod = "credit"
)

// IsValid returns true if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile, PaymentMethodBank, PaymentMethodCredit:
		return true
	}
	return false
}

// Settlement is the derived payment state of a purchase or sale
type Settlement struct {
	Due    decimal.Decimal
	Change decimal.Decimal
	Status PaymentStatus
}

// DeriveSettlement computes due amount, change and status from the grand
// total and the amount paid so far.
//
// When allowChange is set (sales), an overpayment is moved into Change and
// Due is clamped to zero. Otherwise Due may go negative.
//
// Status is paid when nothing is due on a non-zero total, partial when
// something was paid and something is still due, and unpaid otherwise.
func DeriveSettlement(grandTotal, paid decimal.Decimal, allowChange bool) Settlement {
	due := grandTotal.Sub(paid)
	change := decimal.Zero
	if allowChange && due.IsNegative() {
		change = due.Neg()
		due = decimal.Zero
	}

	status := PaymentStatusUnpaid
	switch {
	case !due.IsPositive() && grandTotal.IsPositive():
		status = PaymentStatusPaid
	case paid.IsPositive() && due.IsPositive():
		status = PaymentStatusPartial
	}

	return Settlement{Due: due, Change: change, Status: status}
}
