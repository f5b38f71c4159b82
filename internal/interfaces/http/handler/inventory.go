package handler

import (
	"strconv"

	inventoryapp "github.com/dokan/papershop/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler serves stock levels, adjustments and low-stock alerts
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService}
}

// Adjust adds, removes, sets or takes back stock for a product.
// POST /inventory/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.stockService.AdjustStock(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetReorderLevel PUT /inventory/products/:id/reorder-level
func (h *InventoryHandler) SetReorderLevel(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.SetReorderLevelRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.stockService.SetReorderLevel(c.Request.Context(), p.TenantID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByProduct GET /inventory/products/:id
func (h *InventoryHandler) GetByProduct(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.stockService.GetByProduct(c.Request.Context(), p.TenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List GET /inventory
func (h *InventoryHandler) List(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var filter inventoryapp.StockListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	stocks, total, err := h.stockService.List(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, stocks, total, filter.Page, filter.PageSize)
}

// ListLowStock returns products at or below their reorder level.
// GET /inventory/low-stock
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	stocks, err := h.stockService.ListLowStock(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stocks)
}

// ListMovements GET /inventory/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var filter inventoryapp.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	movements, total, err := h.stockService.ListMovements(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// ListAlerts GET /inventory/alerts?unread=true
func (h *InventoryHandler) ListAlerts(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	alerts, err := h.stockService.ListAlerts(c.Request.Context(), p.TenantID, unreadOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// MarkAlertsRead POST /inventory/alerts/read
func (h *InventoryHandler) MarkAlertsRead(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	n, err := h.stockService.MarkAlertsRead(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"marked": n})
}
