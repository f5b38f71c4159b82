package catalog

import (
	"fmt"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Unit is a unit of measure (ream, packet, piece). Units are usually global
// but a shop may add its own.
type Unit struct {
	shared.BaseEntity
	Scope     shared.Scope `gorm:"column:tenant_id;index"`
	Name      string       `gorm:"type:varchar(50);not null"`
	ShortName string       `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (Unit) TableName() string {
	return "units"
}

// NewUnit creates a unit in the given scope
func NewUnit(scope shared.Scope, name, shortName string) (*Unit, error) {
	if name == "" || shortName == "" {
		return nil, shared.NewValidationError("INVALID_UNIT", "Unit name and short name are required")
	}
	return &Unit{BaseEntity: shared.NewBaseEntity(), Scope: scope, Name: name, ShortName: shortName}, nil
}

// Label renders "Ream (rm)"
func (u *Unit) Label() string {
	return fmt.Sprintf("%s (%s)", u.Name, u.ShortName)
}

// GSMType is a paper grammage grade
type GSMType struct {
	shared.BaseEntity
	Scope       shared.Scope `gorm:"column:tenant_id;index"`
	Value       int          `gorm:"not null"`
	Description string       `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (GSMType) TableName() string {
	return "gsm_types"
}

// NewGSMType creates a GSM grade in the given scope
func NewGSMType(scope shared.Scope, value int, description string) (*GSMType, error) {
	if value <= 0 {
		return nil, shared.NewValidationError("INVALID_GSM", "GSM value must be positive")
	}
	return &GSMType{BaseEntity: shared.NewBaseEntity(), Scope: scope, Value: value, Description: description}, nil
}

// Label renders "80 GSM"
func (g *GSMType) Label() string {
	return fmt.Sprintf("%d GSM", g.Value)
}

// PaperSize is a named sheet size with optional dimensions in millimetres
type PaperSize struct {
	shared.BaseEntity
	Scope    shared.Scope     `gorm:"column:tenant_id;index"`
	Name     string           `gorm:"type:varchar(50);not null"`
	WidthMM  *decimal.Decimal `gorm:"type:decimal(8,2)"`
	HeightMM *decimal.Decimal `gorm:"type:decimal(8,2)"`
}

// TableName returns the table name for GORM
func (PaperSize) TableName() string {
	return "paper_sizes"
}

// NewPaperSize creates a paper size in the given scope
func NewPaperSize(scope shared.Scope, name string, width, height *decimal.Decimal) (*PaperSize, error) {
	if name == "" {
		return nil, shared.NewValidationError("INVALID_SIZE", "Paper size name is required")
	}
	if (width != nil && width.IsNegative()) || (height != nil && height.IsNegative()) {
		return nil, shared.NewValidationError("INVALID_SIZE", "Paper dimensions cannot be negative")
	}
	return &PaperSize{BaseEntity: shared.NewBaseEntity(), Scope: scope, Name: name, WidthMM: width, HeightMM: height}, nil
}
