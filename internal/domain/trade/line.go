package trade

import (
	"fmt"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineTotal returns quantity x unit price minus the line discount, rounded to
// 2 decimal places.
func LineTotal(quantity, unitPrice, discount decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, shared.NewValidationError(shared.CodeInvalidQuantity, "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, shared.NewValidationError(shared.CodeInvalidPrice, "Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return decimal.Zero, shared.NewValidationError(shared.CodeInvalidAmount, "Line discount cannot be negative")
	}
	gross := quantity.Mul(unitPrice)
	if discount.GreaterThan(gross) {
		return decimal.Zero, shared.NewValidationError(shared.CodeInvalidAmount, "Line discount cannot exceed the line amount")
	}
	return gross.Sub(discount).Round(2), nil
}

// Charges are the header-level adjustments applied to the subtotal
type Charges struct {
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
}

// Validate checks that no charge is negative and the discount fits the subtotal
func (c Charges) Validate(subtotal decimal.Decimal) error {
	if c.Discount.IsNegative() {
		return shared.NewValidationError(shared.CodeInvalidAmount, "Discount cannot be negative")
	}
	if c.Shipping.IsNegative() {
		return shared.NewValidationError(shared.CodeInvalidAmount, "Shipping cost cannot be negative")
	}
	if c.Tax.IsNegative() {
		return shared.NewValidationError(shared.CodeInvalidAmount, "Tax cannot be negative")
	}
	if c.Discount.GreaterThan(subtotal) {
		return shared.NewValidationError(shared.CodeInvalidAmount, "Discount cannot exceed the subtotal")
	}
	return nil
}

// GrandTotal is subtotal - discount + shipping + tax
func (c Charges) GrandTotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(c.Discount).Add(c.Shipping).Add(c.Tax).Round(2)
}

// PercentageDiscount returns subtotal x pct / 100 rounded to 2 places
func PercentageDiscount(subtotal, pct decimal.Decimal) (decimal.Decimal, error) {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, shared.NewValidationError(shared.CodeInvalidAmount, "Discount percentage must be between 0 and 100")
	}
	return subtotal.Mul(pct).Div(decimal.NewFromInt(100)).Round(2), nil
}

func validatePaid(paid decimal.Decimal) error {
	if paid.IsNegative() {
		return shared.NewValidationError(shared.CodeInvalidAmount, "Paid amount cannot be negative")
	}
	return nil
}

func validatePaymentAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError(shared.CodeInvalidAmount, "Payment amount must be positive")
	}
	return nil
}

// Line is one priced quantity of a product
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// Totals is the result of finalizing a set of lines against header charges
type Totals struct {
	LineTotals []decimal.Decimal
	Subtotal   decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals validates every line, accumulates the subtotal and applies
// the header charges. Any invalid line fails the whole computation.
func ComputeTotals(lines []Line, charges Charges) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, shared.NewValidationError(shared.CodeValidation, "At least one line item is required")
	}
	totals := Totals{LineTotals: make([]decimal.Decimal, len(lines)), Subtotal: decimal.Zero}
	for i, l := range lines {
		lt, err := LineTotal(l.Quantity, l.UnitPrice, l.Discount)
		if err != nil {
			return Totals{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		totals.LineTotals[i] = lt
		totals.Subtotal = totals.Subtotal.Add(lt)
	}
	if err := charges.Validate(totals.Subtotal); err != nil {
		return Totals{}, err
	}
	totals.GrandTotal = charges.GrandTotal(totals.Subtotal)
	return totals, nil
}
