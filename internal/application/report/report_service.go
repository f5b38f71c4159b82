package report

import (
	"context"
	"fmt"
	"time"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/dokan/papershop/internal/domain/report"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ProfitLossExporter writes a profit and loss statement as a spreadsheet
type ProfitLossExporter interface {
	ExportProfitLoss(shopName string, pl finance.ProfitLoss) ([]byte, error)
}

// ShopNamer resolves a tenant's display name for report headers
type ShopNamer interface {
	ShopName(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// ReportService provides application-level report operations
type ReportService struct {
	ledger   finance.LedgerReader
	reader   report.Reader
	exporter ProfitLossExporter
	shops    ShopNamer
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(ledger finance.LedgerReader, reader report.Reader) *ReportService {
	return &ReportService{
		ledger: ledger,
		reader: reader,
		logger: zap.NewNop(),
		now:    time.Now,
	}
}

// SetExporter enables spreadsheet export
func (s *ReportService) SetExporter(exporter ProfitLossExporter, shops ShopNamer) {
	s.exporter = exporter
	s.shops = shops
}

// SetLogger sets the logger
func (s *ReportService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// ===================== Profit & Loss =====================

// ProfitLossResponse represents a profit and loss statement
type ProfitLossResponse struct {
	From               string                   `json:"from"`
	To                 string                   `json:"to"`
	TotalSales         decimal.Decimal          `json:"total_sales"`
	CostOfGoodsSold    decimal.Decimal          `json:"cost_of_goods_sold"`
	GrossProfit        decimal.Decimal          `json:"gross_profit"`
	GrossMargin        decimal.Decimal          `json:"gross_margin"`
	OperatingExpenses  decimal.Decimal          `json:"operating_expenses"`
	NetProfit          decimal.Decimal          `json:"net_profit"`
	ExpensesByCategory []CategoryAmountResponse `json:"expenses_by_category"`
}

// CategoryAmountResponse is one expense category total
type CategoryAmountResponse struct {
	Category string          `json:"category"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
}

// GetProfitLoss computes the profit and loss statement of an inclusive date
// range. Zero bounds default to the first of the current month and today.
func (s *ReportService) GetProfitLoss(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*ProfitLossResponse, error) {
	pl, err := s.profitLoss(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	resp := toProfitLossResponse(pl)
	return &resp, nil
}

// ExportProfitLoss renders the statement as an XLSX workbook
func (s *ReportService) ExportProfitLoss(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]byte, string, error) {
	if s.exporter == nil {
		return nil, "", shared.NewDomainError(shared.CodeInvalidState, "Spreadsheet export is not configured")
	}
	pl, err := s.profitLoss(ctx, tenantID, from, to)
	if err != nil {
		return nil, "", err
	}

	shopName := ""
	if s.shops != nil {
		shopName, err = s.shops.ShopName(shared.WithTenantID(ctx, tenantID), tenantID)
		if err != nil {
			s.logger.Warn("Failed to resolve shop name for export", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
	}

	data, err := s.exporter.ExportProfitLoss(shopName, pl)
	if err != nil {
		return nil, "", fmt.Errorf("export profit and loss: %w", err)
	}
	filename := fmt.Sprintf("profit-loss_%s_%s.xlsx", pl.Period.From.Format(dateLayout), pl.Period.To.Format(dateLayout))
	return data, filename, nil
}

func (s *ReportService) profitLoss(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (finance.ProfitLoss, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	period, err := finance.NewPeriod(from, to, s.now())
	if err != nil {
		return finance.ProfitLoss{}, err
	}

	sales, err := s.ledger.TotalSales(ctx, tenantID, period)
	if err != nil {
		return finance.ProfitLoss{}, fmt.Errorf("total sales: %w", err)
	}
	cogs, err := s.ledger.CostOfGoodsSold(ctx, tenantID, period)
	if err != nil {
		return finance.ProfitLoss{}, fmt.Errorf("cost of goods sold: %w", err)
	}
	byCategory, err := s.ledger.ExpensesByCategory(ctx, tenantID, period)
	if err != nil {
		return finance.ProfitLoss{}, fmt.Errorf("expenses by category: %w", err)
	}
	return finance.ComputeProfitLoss(period, sales, cogs, byCategory), nil
}

func toProfitLossResponse(pl finance.ProfitLoss) ProfitLossResponse {
	return ProfitLossResponse{
		From:               pl.Period.From.Format(dateLayout),
		To:                 pl.Period.To.Format(dateLayout),
		TotalSales:         pl.TotalSales,
		CostOfGoodsSold:    pl.CostOfGoodsSold,
		GrossProfit:        pl.GrossProfit,
		GrossMargin:        pl.GrossMargin(),
		OperatingExpenses:  pl.OperatingExpenses,
		NetProfit:          pl.NetProfit,
		ExpensesByCategory: toCategoryAmounts(pl.ExpensesByCategory),
	}
}

func toCategoryAmounts(in []finance.CategoryAmount) []CategoryAmountResponse {
	out := make([]CategoryAmountResponse, len(in))
	for i, c := range in {
		out[i] = CategoryAmountResponse{Category: string(c.Category), Label: c.Category.DisplayName(), Amount: c.Amount}
	}
	return out
}

// ===================== Receivables & Payables =====================

// GetDueReport lists open sales and purchases
func (s *ReportService) GetDueReport(ctx context.Context, tenantID uuid.UUID) (*report.DueReport, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	receivables, err := s.reader.OpenSales(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("open sales: %w", err)
	}
	payables, err := s.reader.OpenPurchases(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("open purchases: %w", err)
	}
	due := report.NewDueReport(receivables, payables)
	return &due, nil
}

// ===================== Sales =====================

// DailySalesResponse represents one day's sales totals
type DailySalesResponse struct {
	Date          string          `json:"date"`
	SaleCount     int64           `json:"sale_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalDue      decimal.Decimal `json:"total_due"`
	AverageSale   decimal.Decimal `json:"average_sale"`
}

// GetDailySales totals one day's sales, today when date is zero
func (s *ReportService) GetDailySales(ctx context.Context, tenantID uuid.UUID, date time.Time) (*DailySalesResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	if date.IsZero() {
		date = s.now()
	}
	summary, err := s.reader.DailySales(ctx, tenantID, finance.Day(date))
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	return &DailySalesResponse{
		Date:          summary.Date.Format(dateLayout),
		SaleCount:     summary.SaleCount,
		TotalAmount:   summary.TotalAmount,
		TotalDiscount: summary.TotalDiscount,
		TotalPaid:     summary.TotalPaid,
		TotalDue:      summary.TotalDue,
		AverageSale:   summary.AverageSale(),
	}, nil
}

// IncomeReportResponse lists the sales of a period
type IncomeReportResponse struct {
	From  string              `json:"from"`
	To    string              `json:"to"`
	Sales []report.IncomeLine `json:"sales"`
	Total decimal.Decimal     `json:"total"`
}

// GetIncomeReport lists the sales of an inclusive date range and their total
func (s *ReportService) GetIncomeReport(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*IncomeReportResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	period, err := finance.NewPeriod(from, to, s.now())
	if err != nil {
		return nil, err
	}
	lines, err := s.reader.IncomeLines(ctx, tenantID, period)
	if err != nil {
		return nil, fmt.Errorf("income lines: %w", err)
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.GrandTotal)
	}
	if lines == nil {
		lines = []report.IncomeLine{}
	}
	return &IncomeReportResponse{
		From:  period.From.Format(dateLayout),
		To:    period.To.Format(dateLayout),
		Sales: lines,
		Total: total.Round(2),
	}, nil
}

// ===================== Expenses =====================

// ExpenseReportResponse combines purchase spending with operating expenses
type ExpenseReportResponse struct {
	From          string                   `json:"from"`
	To            string                   `json:"to"`
	PurchaseTotal decimal.Decimal          `json:"purchase_total"`
	ExpenseTotal  decimal.Decimal          `json:"expense_total"`
	ByCategory    []CategoryAmountResponse `json:"by_category"`
	Total         decimal.Decimal          `json:"total"`
}

// GetExpenseReport totals purchases and categorized expenses over an
// inclusive date range
func (s *ReportService) GetExpenseReport(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*ExpenseReportResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	period, err := finance.NewPeriod(from, to, s.now())
	if err != nil {
		return nil, err
	}
	purchases, err := s.ledger.TotalPurchases(ctx, tenantID, period)
	if err != nil {
		return nil, fmt.Errorf("total purchases: %w", err)
	}
	byCategory, err := s.ledger.ExpensesByCategory(ctx, tenantID, period)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	r := report.NewExpenseReport(period, purchases, byCategory)
	return &ExpenseReportResponse{
		From:          period.From.Format(dateLayout),
		To:            period.To.Format(dateLayout),
		PurchaseTotal: r.PurchaseTotal,
		ExpenseTotal:  r.ExpenseTotal,
		ByCategory:    toCategoryAmounts(r.ByCategory),
		Total:         r.Total,
	}, nil
}

// ===================== Inventory =====================

// InventoryValuationResponse values the shop's stock
type InventoryValuationResponse struct {
	Lines           []ValuationLineResponse `json:"lines"`
	TotalQuantity   decimal.Decimal         `json:"total_quantity"`
	CostValue       decimal.Decimal         `json:"cost_value"`
	RetailValue     decimal.Decimal         `json:"retail_value"`
	PotentialProfit decimal.Decimal         `json:"potential_profit"`
	LowStockCount   int                     `json:"low_stock_count"`
}

// ValuationLineResponse values one product's stock
type ValuationLineResponse struct {
	report.ValuationLine
	CostValue   decimal.Decimal `json:"cost_value"`
	RetailValue decimal.Decimal `json:"retail_value"`
	IsLowStock  bool            `json:"is_low_stock"`
}

// GetInventoryValuation values every stocked product at cost and at retail
func (s *ReportService) GetInventoryValuation(ctx context.Context, tenantID uuid.UUID) (*InventoryValuationResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	lines, err := s.reader.Valuation(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("valuation: %w", err)
	}
	v := report.NewInventoryValuation(lines)
	out := make([]ValuationLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		out[i] = ValuationLineResponse{ValuationLine: l, CostValue: l.CostValue(), RetailValue: l.RetailValue(), IsLowStock: l.IsLowStock()}
	}
	return &InventoryValuationResponse{
		Lines:           out,
		TotalQuantity:   v.TotalQuantity,
		CostValue:       v.CostValue,
		RetailValue:     v.RetailValue,
		PotentialProfit: v.PotentialProfit(),
		LowStockCount:   v.LowStockCount,
	}, nil
}
