package inventory

import (
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementTypeIn         MovementType = "in"
	MovementTypeOut        MovementType = "out"
	MovementTypeAdjustment MovementType = "adjustment"
	MovementTypeReturn     MovementType = "return"
)

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment, MovementTypeReturn:
		return true
	}
	return false
}

// AdjustMode is the operator's intent for a manual stock adjustment
type AdjustMode string

const (
	AdjustModeAdd    AdjustMode = "add"
	AdjustModeRemove AdjustMode = "remove"
	AdjustModeSet    AdjustMode = "set"
)

// IsValid returns true if the mode is known
func (m AdjustMode) IsValid() bool {
	switch m {
	case AdjustModeAdd, AdjustModeRemove, AdjustModeSet:
		return true
	}
	return false
}

// MovementType returns the movement recorded for this mode
func (m AdjustMode) MovementType() MovementType {
	switch m {
	case AdjustModeAdd:
		return MovementTypeIn
	case AdjustModeRemove:
		return MovementTypeOut
	default:
		return MovementTypeAdjustment
	}
}

// StockMovement is an immutable audit record of one quantity change.
// Quantity is the delta for in/out/return and the target value for adjustment.
type StockMovement struct {
	shared.BaseEntity
	TenantID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	MovementType     MovementType    `gorm:"type:varchar(20);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PreviousQuantity decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	NewQuantity      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Reference        string          `gorm:"type:varchar(100)"`
	Notes            string          `gorm:"type:text"`
	CreatedBy        *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// Delta returns the signed change in quantity
func (m *StockMovement) Delta() decimal.Decimal {
	return m.NewQuantity.Sub(m.PreviousQuantity)
}

// MovementInfo carries the audit fields for a stock change
type MovementInfo struct {
	Reference string
	Notes     string
	ActorID   uuid.UUID
}

func newStockMovement(s *Stock, movementType MovementType, quantity, before, after decimal.Decimal, info MovementInfo) *StockMovement {
	m := &StockMovement{
		BaseEntity:       shared.NewBaseEntity(),
		TenantID:         s.TenantID,
		StockID:          s.ID,
		ProductID:        s.ProductID,
		MovementType:     movementType,
		Quantity:         quantity,
		PreviousQuantity: before,
		NewQuantity:      after,
		Reference:        info.Reference,
		Notes:            info.Notes,
	}
	if info.ActorID != uuid.Nil {
		actor := info.ActorID
		m.CreatedBy = &actor
	}
	return m
}
