package inventory

import (
	"time"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustModeReturn puts goods handed back by a customer into stock
const AdjustModeReturn = "return"

// AdjustStockRequest represents a manual stock change
type AdjustStockRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Mode      string          `json:"mode" binding:"required,oneof=add remove set return"`
	Quantity  decimal.Decimal `json:"quantity" binding:"gte=0"`
	Reference string          `json:"reference" binding:"max=100"`
	Notes     string          `json:"notes" binding:"max=2000"`
}

// SetReorderLevelRequest changes the low-stock threshold of a product
type SetReorderLevelRequest struct {
	ReorderLevel decimal.Decimal `json:"reorder_level" binding:"gte=0"`
}

// StockListFilter represents filter options for stock lists
type StockListFilter struct {
	ProductID *uuid.UUID `form:"product_id"`
	LowStock  bool       `form:"low_stock"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MovementListFilter represents filter options for the movement audit trail
type MovementListFilter struct {
	ProductID    *uuid.UUID `form:"product_id"`
	MovementType string     `form:"movement_type" binding:"omitempty,oneof=in out adjustment return"`
	Reference    string     `form:"reference"`
	From         *time.Time `form:"from" time_format:"2006-01-02"`
	To           *time.Time `form:"to" time_format:"2006-01-02"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// StockResponse represents a stock row in API responses
type StockResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	SKU          string          `json:"sku,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	IsLowStock   bool            `json:"is_low_stock"`
	StockValue   decimal.Decimal `json:"stock_value"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID               uuid.UUID       `json:"id"`
	StockID          uuid.UUID       `json:"stock_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	MovementType     string          `json:"movement_type"`
	Quantity         decimal.Decimal `json:"quantity"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Reference        string          `json:"reference"`
	Notes            string          `json:"notes"`
	CreatedBy        *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AdjustStockResponse is the stock row after an adjustment plus the movement written
type AdjustStockResponse struct {
	Stock    StockResponse    `json:"stock"`
	Movement MovementResponse `json:"movement"`
}

// AlertResponse represents a low-stock alert
type AlertResponse struct {
	ID        uuid.UUID `json:"id"`
	StockID   uuid.UUID `json:"stock_id"`
	ProductID uuid.UUID `json:"product_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToStockResponse converts a stock row, enriching it with product details when known
func ToStockResponse(s *inventory.Stock, product *catalog.Product) StockResponse {
	resp := StockResponse{
		ID:           s.ID,
		ProductID:    s.ProductID,
		Quantity:     s.Quantity,
		ReorderLevel: s.ReorderLevel,
		IsLowStock:   s.IsLowStock(),
		StockValue:   decimal.Zero,
		UpdatedAt:    s.UpdatedAt,
		Version:      s.Version,
	}
	if product != nil {
		resp.ProductName = product.Name
		resp.SKU = product.SKU
		resp.StockValue = s.ValueAt(product.BuyingPrice)
	}
	return resp
}

// ToMovementResponse converts a stock movement
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		StockID:          m.StockID,
		ProductID:        m.ProductID,
		MovementType:     string(m.MovementType),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reference:        m.Reference,
		Notes:            m.Notes,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}

// ToMovementResponses converts a page of movements
func ToMovementResponses(movements []inventory.StockMovement) []MovementResponse {
	out := make([]MovementResponse, len(movements))
	for i := range movements {
		out[i] = ToMovementResponse(&movements[i])
	}
	return out
}

// ToAlertResponses converts stock alerts
func ToAlertResponses(alerts []inventory.StockAlert) []AlertResponse {
	out := make([]AlertResponse, len(alerts))
	for i, a := range alerts {
		out[i] = AlertResponse{
			ID:        a.ID,
			StockID:   a.StockID,
			ProductID: a.ProductID,
			Message:   a.Message,
			IsRead:    a.IsRead,
			CreatedAt: a.CreatedAt,
		}
	}
	return out
}
