package handler

import (
	tradeapp "github.com/dokan/papershop/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PartyHandler serves customers and suppliers
type PartyHandler struct {
	BaseHandler
	partyService *tradeapp.PartyService
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(partyService *tradeapp.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

// CreateCustomer POST /customers
func (h *PartyHandler) CreateCustomer(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req tradeapp.CreatePartyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.partyService.CreateCustomer(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetCustomer returns a customer with their purchase and due totals.
// GET /customers/:id
func (h *PartyHandler) GetCustomer(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.partyService.GetCustomer(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCustomers GET /customers
func (h *PartyHandler) ListCustomers(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var filter tradeapp.PartyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	customers, total, err := h.partyService.ListCustomers(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// CreateSupplier POST /suppliers
func (h *PartyHandler) CreateSupplier(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req tradeapp.CreatePartyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.partyService.CreateSupplier(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetSupplier GET /suppliers/:id
func (h *PartyHandler) GetSupplier(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.partyService.GetSupplier(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListSuppliers GET /suppliers
func (h *PartyHandler) ListSuppliers(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var filter tradeapp.PartyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	suppliers, total, err := h.partyService.ListSuppliers(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, suppliers, total, filter.Page, filter.PageSize)
}
