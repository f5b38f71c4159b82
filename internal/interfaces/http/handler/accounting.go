package handler

import (
	financeapp "github.com/dokan/papershop/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// AccountingHandler serves the manual ledger and the accounting dashboard
type AccountingHandler struct {
	BaseHandler
	accountingService *financeapp.AccountingService
}

// NewAccountingHandler creates a new AccountingHandler
func NewAccountingHandler(accountingService *financeapp.AccountingService) *AccountingHandler {
	return &AccountingHandler{accountingService: accountingService}
}

// Dashboard GET /accounting/dashboard
func (h *AccountingHandler) Dashboard(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	resp, err := h.accountingService.Dashboard(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Categories GET /accounting/transactions/categories
func (h *AccountingHandler) Categories(c *gin.Context) {
	h.Success(c, h.accountingService.Categories())
}

// CreateTransaction POST /accounting/transactions
func (h *AccountingHandler) CreateTransaction(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req financeapp.CreateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.accountingService.CreateTransaction(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListTransactions filters by type, category and an inclusive date range.
// GET /accounting/transactions?type=&category=&from=&to=
func (h *AccountingHandler) ListTransactions(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var filter financeapp.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	page, total, err := h.accountingService.ListTransactions(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page, total, filter.Page, filter.PageSize)
}

// GetTransaction GET /accounting/transactions/:id
func (h *AccountingHandler) GetTransaction(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.accountingService.GetTransaction(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
