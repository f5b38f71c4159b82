package trade

import (
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a customer-facing transaction. Finalizing it decreases stock for
// every line; money handed over beyond the grand total becomes change.
type Sale struct {
	shared.TenantAggregateRoot
	InvoiceNumber      string          `gorm:"type:varchar(50);not null"`
	CustomerID         *uuid.UUID      `gorm:"type:uuid;index"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	GrandTotal         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DueAmount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ChangeAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentStatus      PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid'"`
	PaymentMethod      PaymentMethod   `gorm:"type:varchar(20);not null;default:'cash'"`
	Notes              string          `gorm:"type:text"`
	SaleDate           time.Time       `gorm:"not null;index"`
	Items              []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one product line of a sale. UnitCost is the product buying
// price at the time of sale and feeds cost of goods sold.
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// Cost returns quantity x unit cost
func (i SaleItem) Cost() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost).Round(2)
}

// SaleLine is the input for one sale item
type SaleLine struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	UnitCost    decimal.Decimal
}

// SaleDraft collects everything needed to finalize a sale
type SaleDraft struct {
	CustomerID         *uuid.UUID
	Lines              []SaleLine
	Discount           decimal.Decimal
	DiscountPercentage decimal.Decimal
	Tax                decimal.Decimal
	PaidAmount         decimal.Decimal
	PaymentMethod      PaymentMethod
	Notes              string
	Date               time.Time
}

// NewSale finalizes a draft into a sale with computed totals and derived
// settlement. The invoice number is assigned separately.
func NewSale(tenantID, createdBy uuid.UUID, d SaleDraft) (*Sale, error) {
	method, err := normalizeMethod(d.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if err := validatePaid(d.PaidAmount); err != nil {
		return nil, err
	}

	lines := make([]Line, len(d.Lines))
	for i, l := range d.Lines {
		if l.ProductID == uuid.Nil {
			return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		lines[i] = Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice, Discount: l.Discount}
	}

	// A percentage only applies when no absolute discount was given.
	discount := d.Discount
	if d.DiscountPercentage.IsNegative() || d.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewValidationError(shared.CodeInvalidAmount, "Discount percentage must be between 0 and 100")
	}
	if discount.IsZero() && d.DiscountPercentage.IsPositive() {
		gross, err := ComputeTotals(lines, Charges{})
		if err != nil {
			return nil, err
		}
		if discount, err = PercentageDiscount(gross.Subtotal, d.DiscountPercentage); err != nil {
			return nil, err
		}
	}
	totals, err := ComputeTotals(lines, Charges{Discount: discount, Tax: d.Tax})
	if err != nil {
		return nil, err
	}

	s := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		CustomerID:          d.CustomerID,
		Subtotal:            totals.Subtotal,
		DiscountAmount:      discount,
		DiscountPercentage:  d.DiscountPercentage,
		TaxAmount:           d.Tax,
		GrandTotal:          totals.GrandTotal,
		PaidAmount:          d.PaidAmount,
		PaymentMethod:       method,
		Notes:               d.Notes,
		SaleDate:            transactionDate(d.Date),
	}
	for i, l := range d.Lines {
		s.Items = append(s.Items, SaleItem{
			BaseEntity:  shared.NewBaseEntity(),
			SaleID:      s.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			UnitCost:    l.UnitCost,
			Total:       totals.LineTotals[i],
		})
	}
	s.settle()
	return s, nil
}

// AssignNumber sets the invoice number
func (s *Sale) AssignNumber(number string) {
	s.InvoiceNumber = number
}

// TotalCost returns the snapshotted cost of every line
func (s *Sale) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Cost())
	}
	return total
}

// RecordPayment applies a customer payment. Change is recomputed from the
// grand total and the new paid amount.
func (s *Sale) RecordPayment(in PaymentInput) (*Payment, error) {
	if err := validatePaymentAmount(in.Amount); err != nil {
		return nil, err
	}
	method, err := normalizeMethod(in.Method)
	if err != nil {
		return nil, err
	}

	payment := &Payment{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      s.TenantID,
		SaleID:        s.ID,
		Amount:        in.Amount,
		PaymentMethod: method,
		Reference:     in.Reference,
		Notes:         in.Notes,
		ReceivedBy:    actorRef(in.ActorID),
		PaymentDate:   transactionDate(in.Date),
	}
	s.PaidAmount = s.PaidAmount.Add(in.Amount)
	s.settle()
	s.Touch()
	s.IncrementVersion()
	return payment, nil
}

func (s *Sale) settle() {
	st := DeriveSettlement(s.GrandTotal, s.PaidAmount, true)
	s.DueAmount = st.Due
	s.ChangeAmount = st.Change
	s.PaymentStatus = st.Status
}
