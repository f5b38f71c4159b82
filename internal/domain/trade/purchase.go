package trade

import (
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a supplier-facing transaction. Finalizing it increases stock
// for every line and leaves the unpaid remainder as a payable.
type Purchase struct {
	shared.TenantAggregateRoot
	PurchaseNumber string          `gorm:"type:varchar(50);not null"`
	SupplierID     *uuid.UUID      `gorm:"type:uuid;index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ShippingCost   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DueAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid'"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null;default:'cash'"`
	Notes          string          `gorm:"type:text"`
	PurchaseDate   time.Time       `gorm:"not null;index"`
	Items          []PurchaseItem  `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseItem is one product line of a purchase
type PurchaseItem struct {
	shared.BaseEntity
	PurchaseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// PurchaseLine is the input for one purchase item
type PurchaseLine struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// PurchaseDraft collects everything needed to finalize a purchase
type PurchaseDraft struct {
	SupplierID    *uuid.UUID
	Lines         []PurchaseLine
	Discount      decimal.Decimal
	ShippingCost  decimal.Decimal
	Tax           decimal.Decimal
	PaidAmount    decimal.Decimal
	PaymentMethod PaymentMethod
	Notes         string
	Date          time.Time
}

// NewPurchase finalizes a draft into a purchase with computed totals and
// derived settlement. Paying the supplier more than the grand total is
// rejected. The number is assigned separately.
func NewPurchase(tenantID, createdBy uuid.UUID, d PurchaseDraft) (*Purchase, error) {
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
		lines[i] = Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	charges := Charges{Discount: d.Discount, Shipping: d.ShippingCost, Tax: d.Tax}
	totals, err := ComputeTotals(lines, charges)
	if err != nil {
		return nil, err
	}
	if d.PaidAmount.GreaterThan(totals.GrandTotal) {
		return nil, shared.NewValidationError(shared.CodeOverpayment,
			"Paid amount "+d.PaidAmount.StringFixed(2)+" exceeds the grand total "+totals.GrandTotal.StringFixed(2))
	}

	p := &Purchase{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		SupplierID:          d.SupplierID,
		Subtotal:            totals.Subtotal,
		DiscountAmount:      d.Discount,
		TaxAmount:           d.Tax,
		ShippingCost:        d.ShippingCost,
		GrandTotal:          totals.GrandTotal,
		PaidAmount:          d.PaidAmount,
		PaymentMethod:       method,
		Notes:               d.Notes,
		PurchaseDate:        transactionDate(d.Date),
	}
	for i, l := range d.Lines {
		item := PurchaseItem{
			BaseEntity:  shared.NewBaseEntity(),
			PurchaseID:  p.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       totals.LineTotals[i],
		}
		p.Items = append(p.Items, item)
	}
	p.settle()
	return p, nil
}

// AssignNumber sets the purchase number
func (p *Purchase) AssignNumber(number string) {
	p.PurchaseNumber = number
}

// RecordPayment applies a supplier payment. A payment larger than what is
// still due is rejected, so due never goes negative.
func (p *Purchase) RecordPayment(in PaymentInput) (*SupplierPayment, error) {
	if err := validatePaymentAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.Amount.GreaterThan(p.DueAmount) {
		return nil, shared.NewValidationError(shared.CodeOverpayment,
			"Payment of "+in.Amount.StringFixed(2)+" exceeds the amount due "+p.DueAmount.StringFixed(2))
	}
	method, err := normalizeMethod(in.Method)
	if err != nil {
		return nil, err
	}

	payment := &SupplierPayment{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      p.TenantID,
		PurchaseID:    p.ID,
		Amount:        in.Amount,
		PaymentMethod: method,
		Reference:     in.Reference,
		Notes:         in.Notes,
		PaidBy:        actorRef(in.ActorID),
		PaymentDate:   transactionDate(in.Date),
	}
	p.PaidAmount = p.PaidAmount.Add(in.Amount)
	p.settle()
	p.Touch()
	p.IncrementVersion()
	return payment, nil
}

func (p *Purchase) settle() {
	s := DeriveSettlement(p.GrandTotal, p.PaidAmount, false)
	p.DueAmount = s.Due
	p.PaymentStatus = s.Status
}
