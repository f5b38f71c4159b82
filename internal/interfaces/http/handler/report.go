package handler

import (
	"time"

	reportapp "github.com/dokan/papershop/internal/application/report"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves financial and stock reports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ProfitLoss returns the statement for a date range, or the XLSX workbook
// when format=xlsx.
// GET /reports/profit-loss?from=&to=&format=
func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}

	if c.Query("format") == "xlsx" {
		data, filename, err := h.reportService.ExportProfitLoss(c.Request.Context(), p.TenantID, from, to)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Attachment(c, xlsxContentType, filename, data)
		return
	}

	resp, err := h.reportService.GetProfitLoss(c.Request.Context(), p.TenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Due lists receivables and payables.
// GET /reports/due
func (h *ReportHandler) Due(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	resp, err := h.reportService.GetDueReport(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DailySales GET /reports/daily-sales?date=
func (h *ReportHandler) DailySales(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	date, ok := h.queryDate(c, "date", time.Now().UTC())
	if !ok {
		return
	}
	resp, err := h.reportService.GetDailySales(c.Request.Context(), p.TenantID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Income GET /reports/income?from=&to=
func (h *ReportHandler) Income(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}
	resp, err := h.reportService.GetIncomeReport(c.Request.Context(), p.TenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Expense GET /reports/expense?from=&to=
func (h *ReportHandler) Expense(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}
	resp, err := h.reportService.GetExpenseReport(c.Request.Context(), p.TenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// InventoryValuation GET /reports/inventory-valuation
func (h *ReportHandler) InventoryValuation(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	resp, err := h.reportService.GetInventoryValuation(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
