package trade

import (
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentInput describes money received for a sale or paid for a purchase
type PaymentInput struct {
	Amount    decimal.Decimal
	Method    PaymentMethod
	Reference string
	Notes     string
	ActorID   uuid.UUID
	Date      time.Time
}

// Payment is an append-only record of money received against a sale
type Payment struct {
	shared.BaseEntity
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null"`
	Reference     string          `gorm:"type:varchar(100)"`
	Notes         string          `gorm:"type:text"`
	ReceivedBy    *uuid.UUID      `gorm:"type:uuid"`
	PaymentDate   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// SupplierPayment is an append-only record of money paid against a purchase
type SupplierPayment struct {
	shared.BaseEntity
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null"`
	Reference     string          `gorm:"type:varchar(100)"`
	Notes         string          `gorm:"type:text"`
	PaidBy        *uuid.UUID      `gorm:"type:uuid"`
	PaymentDate   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplierPayment) TableName() string {
	return "supplier_payments"
}

func normalizeMethod(m PaymentMethod) (PaymentMethod, error) {
	if m == "" {
		return PaymentMethodCash, nil
	}
	if !m.IsValid() {
		return "", shared.NewValidationError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(m))
	}
	return m, nil
}

func actorRef(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func transactionDate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
