package handler

import (
	"io"
	"net/http"
	"time"

	financeapp "github.com/dokan/papershop/internal/application/finance"
	"github.com/dokan/papershop/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CashFlowHandler serves the daily cash book
type CashFlowHandler struct {
	BaseHandler
	cashFlowService *financeapp.CashFlowService
}

// NewCashFlowHandler creates a new CashFlowHandler
func NewCashFlowHandler(cashFlowService *financeapp.CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{cashFlowService: cashFlowService}
}

// Daily returns the rolled-up cash flow of one day, today by default.
// GET /cashflow/daily?date=YYYY-MM-DD
func (h *CashFlowHandler) Daily(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	date, ok := h.queryDate(c, "date", time.Now().UTC())
	if !ok {
		return
	}
	resp, err := h.cashFlowService.GetDailyCashFlow(c.Request.Context(), p.TenantID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Close freezes a day's figures.
// POST /cashflow/close
func (h *CashFlowHandler) Close(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req financeapp.CloseDayRequest
	if !h.bindJSON(c, &req) {
		return
	}
	date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		h.ValidationError(c, []dto.ValidationDetail{{Field: "date", Message: "Must be a date in the format " + dateLayout}})
		return
	}
	resp, err := h.cashFlowService.CloseDay(c.Request.Context(), p.TenantID, p.UserID, date, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List GET /cashflow?from=&to=
func (h *CashFlowHandler) List(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}
	days, err := h.cashFlowService.List(c.Request.Context(), p.TenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, days)
}

// ExpenseHandler serves operating expenses and their receipts
type ExpenseHandler struct {
	BaseHandler
	expenseService *financeapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *financeapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// Categories GET /expenses/categories
func (h *ExpenseHandler) Categories(c *gin.Context) {
	h.Success(c, h.expenseService.Categories())
}

// Create POST /expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req financeapp.CreateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.expenseService.Create(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update PUT /expenses/:id
func (h *ExpenseHandler) Update(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.expenseService.Update(c.Request.Context(), p.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete DELETE /expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.expenseService.Delete(c.Request.Context(), p.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetByID GET /expenses/:id
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.expenseService.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List GET /expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var filter financeapp.ExpenseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	expenses, total, err := h.expenseService.List(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, expenses, total, filter.Page, filter.PageSize)
}

// UploadReceipt accepts a multipart "receipt" file.
// POST /expenses/:id/receipt
func (h *ExpenseHandler) UploadReceipt(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		h.BadRequest(c, "Missing receipt file")
		return
	}
	if fileHeader.Size > financeapp.MaxReceiptSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Receipt is too large")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, financeapp.MaxReceiptSize+1))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	resp, err := h.expenseService.UploadReceipt(c.Request.Context(), p.TenantID, id, contentType, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReceiptURL returns a short-lived download link.
// GET /expenses/:id/receipt
func (h *ExpenseHandler) ReceiptURL(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.expenseService.ReceiptURL(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
