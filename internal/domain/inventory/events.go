package inventory

import (
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeStock is the aggregate type of stock events
const AggregateTypeStock = "Stock"

// EventTypeStockLowLevelReached fires when a stock row drops to or below its reorder level
const EventTypeStockLowLevelReached = "StockLowLevelReached"

// StockLowLevelReachedEvent is raised when a mutation moves stock into the low band
type StockLowLevelReachedEvent struct {
	shared.BaseDomainEvent
	StockID      uuid.UUID       `json:"stock_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// NewStockLowLevelReachedEvent creates the event from the stock's current state
func NewStockLowLevelReachedEvent(s *Stock) *StockLowLevelReachedEvent {
	return &StockLowLevelReachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLowLevelReached, AggregateTypeStock, s.ID, s.TenantID),
		StockID:         s.ID,
		ProductID:       s.ProductID,
		Quantity:        s.Quantity,
		ReorderLevel:    s.ReorderLevel,
	}
}
