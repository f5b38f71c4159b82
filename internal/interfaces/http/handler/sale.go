package handler

import (
	tradeapp "github.com/dokan/papershop/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SaleHandler serves point-of-sale transactions
type SaleHandler struct {
	BaseHandler
	saleService *tradeapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *tradeapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create records a sale, deducting stock and taking the upfront payment.
// POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req tradeapp.CreateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.saleService.CreateSale(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ApplyPayment settles part or all of a sale's due.
// POST /sales/:id/payments
func (h *SaleHandler) ApplyPayment(c *gin.Context) {
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
	resp, err := h.saleService.ApplyPayment(c.Request.Context(), p.TenantID, p.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID GET /sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.saleService.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var filter tradeapp.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	sales, total, err := h.saleService.List(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// ListPayments GET /sales/:id/payments
func (h *SaleHandler) ListPayments(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	payments, err := h.saleService.ListPayments(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Invoice prints the sale invoice as a PDF.
// GET /sales/:id/invoice
func (h *SaleHandler) Invoice(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	pdf, err := h.saleService.RenderInvoice(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Attachment(c, "application/pdf", "invoice-"+id.String()+".pdf", pdf)
}
