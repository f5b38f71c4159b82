package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	apptrade "github.com/dokan/papershop/internal/application/trade"
	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePDF struct {
	req *RenderRequest
	err error
}

func (f *fakePDF) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.4")}, nil
}

func (f *fakePDF) Close() error { return nil }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleInvoice() *apptrade.InvoiceDocument {
	saleDate := time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)
	sale := &trade.Sale{
		InvoiceNumber:  "INV-20260305-0001",
		Subtotal:       d("1250"),
		DiscountAmount: d("50"),
		GrandTotal:     d("1200"),
		PaidAmount:     d("1000"),
		DueAmount:      d("200"),
		PaymentStatus:  trade.PaymentStatusPartial,
		PaymentMethod:  trade.PaymentMethodMobile,
		SaleDate:       saleDate,
		Items: []trade.SaleItem{
			{ProductName: "A4 Offset Paper 80gsm", Quantity: d("2"), UnitPrice: d("550"), Discount: d("0"), Total: d("1100")},
			{ProductName: "Gel Pen <Blue>", Quantity: d("1.5"), UnitPrice: d("100"), Discount: d("0"), Total: d("150")},
		},
	}
	customer := &trade.Customer{Contact: trade.Contact{Name: "Rahim Stationers", Phone: "01711-000000"}}
	return &apptrade.InvoiceDocument{
		Organization: &identity.Organization{Name: "Dokan Paper House", Address: "12 College Road"},
		Sale:         sale,
		Customer:     customer,
		Payments: []trade.Payment{
			{Amount: d("1000"), PaymentMethod: trade.PaymentMethodMobile, Reference: "BK-778", PaymentDate: saleDate},
		},
		PrintedAt: saleDate.Add(time.Hour),
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "৳0.00"},
		{"12.5", "৳12.50"},
		{"1234.56", "৳1,234.56"},
		{"1000000", "৳1,000,000.00"},
		{"-250.4", "-৳250.40"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(d(tt.in)))
		})
	}
}

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "3", formatQty(d("3.00")))
	assert.Equal(t, "1.50", formatQty(d("1.5")))
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Partially paid", statusText(trade.PaymentStatusPartial))
	assert.Equal(t, "Due", statusText("unpaid"))
	assert.Equal(t, "Refunded", statusText("refunded"))
}

func TestTemplateEngine_FormatDateUsesLocation(t *testing.T) {
	dhaka := time.FixedZone("BST", 6*60*60)
	engine := NewTemplateEngine(WithLocation(dhaka))

	out, err := engine.RenderString(context.Background(), "t", `{{formatDateTime .}}`, time.Date(2026, 3, 5, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "06 Mar 2026 02:00", out)
}

func TestTemplateEngine_RenderStringErrors(t *testing.T) {
	engine := NewTemplateEngine()
	ctx := context.Background()

	_, err := engine.RenderString(ctx, "empty", "  ", nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = engine.RenderString(ctx, "bad", "{{.Missing", nil)
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = engine.RenderString(ctx, "exec", "{{formatMoney .}}", "not a decimal")
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRenderFailed, renderErr.Code)
}

func TestInvoiceRenderer_RenderHTML(t *testing.T) {
	r := NewInvoiceRenderer(NewTemplateEngine(), &fakePDF{}, InvoiceOptions{Footer: "Goods once sold are not returned"})

	html, err := r.RenderHTML(context.Background(), sampleInvoice())
	require.NoError(t, err)

	assert.Contains(t, html, "Dokan Paper House")
	assert.Contains(t, html, "INV-20260305-0001")
	assert.Contains(t, html, "Rahim Stationers")
	assert.Contains(t, html, "A4 Offset Paper 80gsm")
	assert.Contains(t, html, "Gel Pen &lt;Blue&gt;", "item names are escaped")
	assert.Contains(t, html, "1.50")
	assert.Contains(t, html, "৳1,200.00")
	assert.Contains(t, html, "Partially paid")
	assert.Contains(t, html, "Paid by Mobile")
	assert.Contains(t, html, "BK-778")
	assert.Contains(t, html, "Goods once sold are not returned")
	assert.NotContains(t, html, "Change")
	assert.NotContains(t, html, "Walk-in customer")
}

func TestInvoiceRenderer_WalkInCustomer(t *testing.T) {
	r := NewInvoiceRenderer(NewTemplateEngine(), &fakePDF{}, InvoiceOptions{})
	doc := sampleInvoice()
	doc.Customer = nil
	doc.Payments = nil

	html, err := r.RenderHTML(context.Background(), doc)
	require.NoError(t, err)
	assert.Contains(t, html, "Walk-in customer")
	assert.NotContains(t, html, "<h3>Payments</h3>")
}

func TestInvoiceRenderer_RenderInvoice(t *testing.T) {
	pdf := &fakePDF{}
	r := NewInvoiceRenderer(NewTemplateEngine(), pdf, InvoiceOptions{PaperSize: PaperSizeReceipt80})

	out, err := r.RenderInvoice(context.Background(), sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), out)
	require.NotNil(t, pdf.req)
	assert.Equal(t, PaperSizeReceipt80, pdf.req.PaperSize)
	assert.Equal(t, "INV-20260305-0001", pdf.req.Title)
	assert.Equal(t, 8.0, pdf.req.MarginMM)
	assert.Contains(t, pdf.req.HTML, "11px")

	pdf.err = NewRenderError(ErrCodeRenderTimeout, "PDF rendering timed out", nil)
	_, err = r.RenderInvoice(context.Background(), sampleInvoice())
	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeRenderTimeout, renderErr.Code)
}

func TestPaperSize(t *testing.T) {
	w, h := PaperSizeA4.Dimensions()
	assert.Equal(t, 210.0, w)
	assert.Equal(t, 297.0, h)
	assert.True(t, PaperSizeReceipt80.IsValid())
	assert.True(t, PaperSizeReceipt80.IsReceipt())
	assert.False(t, PaperSize("LETTER").IsValid())
}

func TestPrintParams(t *testing.T) {
	params := printParams(&RenderRequest{PaperSize: PaperSizeA4, MarginMM: 25.4})
	assert.InDelta(t, 210/25.4, params.PaperWidth, 0.001)
	assert.InDelta(t, 297/25.4, params.PaperHeight, 0.001)
	assert.InDelta(t, 1.0, params.MarginTop, 0.001)
	assert.True(t, params.PrintBackground)

	receipt := printParams(&RenderRequest{PaperSize: PaperSizeReceipt80})
	assert.InDelta(t, 80/25.4, receipt.PaperWidth, 0.001)
	assert.InDelta(t, receiptHeightMM/25.4, receipt.PaperHeight, 0.001)
}

func TestWrapDocument(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, wrapDocument(&RenderRequest{HTML: full}))

	wrapped := wrapDocument(&RenderRequest{HTML: "<p>hi</p>", Title: "INV-1"})
	assert.Contains(t, wrapped, "<title>INV-1</title>")
	assert.Contains(t, wrapped, "<body><p>hi</p></body>")
}

func TestChromedpRenderer_RejectsBadRequests(t *testing.T) {
	r := &ChromedpRenderer{timeout: time.Second}

	_, err := r.Render(context.Background(), &RenderRequest{HTML: " ", PaperSize: PaperSizeA4})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "<p>x</p>", PaperSize: "LETTER"})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidPaperSize, renderErr.Code)
}
