package inventory

import (
	"fmt"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockAlert is an unread notice that a product is running low
type StockAlert struct {
	shared.BaseEntity
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StockID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Message   string    `gorm:"type:varchar(255);not null"`
	IsRead    bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StockAlert) TableName() string {
	return "stock_alerts"
}

// NewStockAlert builds the alert for a low-stock event
func NewStockAlert(tenantID, stockID, productID uuid.UUID, productName string, quantity, reorderLevel decimal.Decimal) *StockAlert {
	return &StockAlert{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		StockID:    stockID,
		ProductID:  productID,
		Message: fmt.Sprintf("%s is low on stock: %s left (reorder level %s)",
			productName, quantity.StringFixed(2), reorderLevel.StringFixed(2)),
	}
}
