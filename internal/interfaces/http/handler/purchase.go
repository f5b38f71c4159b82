package handler

import (
	tradeapp "github.com/dokan/papershop/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PurchaseHandler serves supplier purchases
type PurchaseHandler struct {
	BaseHandler
	purchaseService *tradeapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *tradeapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create records a purchase and receives its goods into stock.
// POST /purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req tradeapp.CreatePurchaseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.purchaseService.CreatePurchase(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ApplyPayment records a payment to the supplier.
// POST /purchases/:id/payments
func (h *PurchaseHandler) ApplyPayment(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.ApplyPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.purchaseService.ApplyPayment(c.Request.Context(), p.TenantID, p.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID GET /purchases/:id
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.purchaseService.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List GET /purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var filter tradeapp.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	purchases, total, err := h.purchaseService.List(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, purchases, total, filter.Page, filter.PageSize)
}

// ListPayments GET /purchases/:id/payments
func (h *PurchaseHandler) ListPayments(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	payments, err := h.purchaseService.ListPayments(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}
