package inventory

import (
	"fmt"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultReorderLevel applies to stock rows created without an explicit level
var DefaultReorderLevel = decimal.NewFromInt(10)

// Stock is the on-hand quantity of one product in one shop.
//
// Quantity never goes below zero: removals and sales that would overdraw the
// row fail with INSUFFICIENT_STOCK.
type Stock struct {
	shared.TenantAggregateRoot
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(18,2);not null;default:10"`
}

// TableName returns the table name for GORM
func (Stock) TableName() string {
	return "stocks"
}

// NewStock creates an empty stock row for a product
func NewStock(tenantID, productID uuid.UUID, reorderLevel decimal.Decimal) (*Stock, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if reorderLevel.IsNegative() {
		return nil, shared.NewValidationError(shared.CodeInvalidQuantity, "Reorder level cannot be negative")
	}
	return &Stock{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		Quantity:            decimal.Zero,
		ReorderLevel:        reorderLevel,
	}, nil
}

// IsLowStock reports quantity <= reorder level
func (s *Stock) IsLowStock() bool {
	return s.Quantity.LessThanOrEqual(s.ReorderLevel)
}

// ValueAt returns quantity multiplied by a unit price
func (s *Stock) ValueAt(unitPrice decimal.Decimal) decimal.Decimal {
	return s.Quantity.Mul(unitPrice).Round(2)
}

// Receive adds purchased goods to stock
func (s *Stock) Receive(quantity decimal.Decimal, info MovementInfo) (*StockMovement, error) {
	if err := requirePositive(quantity); err != nil {
		return nil, err
	}
	return s.apply(MovementTypeIn, quantity, s.Quantity.Add(quantity), info), nil
}

// Issue removes sold goods from stock
func (s *Stock) Issue(quantity decimal.Decimal, info MovementInfo) (*StockMovement, error) {
	if err := requirePositive(quantity); err != nil {
		return nil, err
	}
	if err := s.requireAvailable(quantity); err != nil {
		return nil, err
	}
	return s.apply(MovementTypeOut, quantity, s.Quantity.Sub(quantity), info), nil
}

// Return puts goods handed back by a customer into stock
func (s *Stock) Return(quantity decimal.Decimal, info MovementInfo) (*StockMovement, error) {
	if err := requirePositive(quantity); err != nil {
		return nil, err
	}
	return s.apply(MovementTypeReturn, quantity, s.Quantity.Add(quantity), info), nil
}

// Adjust applies a manual correction. add and remove take a positive delta;
// set takes the counted quantity, which may be zero.
func (s *Stock) Adjust(mode AdjustMode, quantity decimal.Decimal, info MovementInfo) (*StockMovement, error) {
	switch mode {
	case AdjustModeAdd:
		return s.Receive(quantity, info)
	case AdjustModeRemove:
		if err := requirePositive(quantity); err != nil {
			return nil, err
		}
		if err := s.requireAvailable(quantity); err != nil {
			return nil, err
		}
		return s.apply(MovementTypeOut, quantity, s.Quantity.Sub(quantity), info), nil
	case AdjustModeSet:
		if quantity.IsNegative() {
			return nil, shared.NewValidationError(shared.CodeInvalidQuantity, "Stock cannot be set below zero")
		}
		return s.apply(MovementTypeAdjustment, quantity, quantity, info), nil
	default:
		return nil, shared.NewValidationError("INVALID_ADJUST_MODE", fmt.Sprintf("Unknown adjustment mode %q", mode))
	}
}

// SetReorderLevel changes the low-stock threshold
func (s *Stock) SetReorderLevel(level decimal.Decimal) error {
	if level.IsNegative() {
		return shared.NewValidationError(shared.CodeInvalidQuantity, "Reorder level cannot be negative")
	}
	wasLow := s.IsLowStock()
	s.ReorderLevel = level
	s.IncrementVersion()
	s.Touch()
	if !wasLow && s.IsLowStock() {
		s.AddDomainEvent(NewStockLowLevelReachedEvent(s))
	}
	return nil
}

func (s *Stock) apply(movementType MovementType, quantity, newQuantity decimal.Decimal, info MovementInfo) *StockMovement {
	before := s.Quantity
	wasLow := s.IsLowStock()

	s.Quantity = newQuantity
	s.IncrementVersion()
	s.Touch()

	if !wasLow && s.IsLowStock() {
		s.AddDomainEvent(NewStockLowLevelReachedEvent(s))
	}
	return newStockMovement(s, movementType, quantity, before, newQuantity, info)
}

func (s *Stock) requireAvailable(quantity decimal.Decimal) error {
	if s.Quantity.LessThan(quantity) {
		return shared.NewValidationError(shared.CodeInsufficientStock,
			fmt.Sprintf("Insufficient stock: available %s, requested %s", s.Quantity.StringFixed(2), quantity.StringFixed(2)))
	}
	return nil
}

func requirePositive(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewValidationError(shared.CodeInvalidQuantity, "Quantity must be positive")
	}
	return nil
}
