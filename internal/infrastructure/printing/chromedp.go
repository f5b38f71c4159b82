package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/dokan/papershop/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	// receiptHeightMM approximates an endless thermal roll
	receiptHeightMM = 3000
	mmPerInch       = 25.4
)

var _ PDFRenderer = (*ChromedpRenderer)(nil)

// ChromedpRenderer prints invoices and receipts to PDF with headless
// Chrome. The browser process is started lazily by the first Render and
// shared by later ones; each render gets its own tab.
type ChromedpRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func chromeOptions(cfg config.PrintingConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	return opts
}

func NewChromedpRenderer(cfg config.PrintingConfig, logger *zap.Logger) *ChromedpRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &ChromedpRenderer{timeout: cfg.Timeout, logger: logger}
	if r.timeout <= 0 {
		r.timeout = defaultChromeTimeout
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), chromeOptions(cfg)...)
	return r
}

func checkRequest(req *RenderRequest) error {
	switch {
	case req == nil || strings.TrimSpace(req.HTML) == "":
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	case !req.PaperSize.IsValid():
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}
	return nil
}

func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}
	timeout := r.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tab, closeTab := chromedp.NewContext(r.allocCtx, chromedp.WithDebugf(func(format string, args ...any) {
		r.logger.Debug(fmt.Sprintf(format, args...))
	}))
	defer closeTab()
	defer context.AfterFunc(ctx, closeTab)()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(tab,
		chromedp.Navigate("about:blank"),
		loadDocument(wrapDocument(req)),
		chromedp.ActionFunc(func(ctx context.Context) (err error) {
			pdf, _, err = printParams(req).Do(ctx)
			return err
		}),
	)
	switch {
	case err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
	case err != nil:
		r.logger.Error("Chrome failed to print document", zap.String("title", req.Title), zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	case len(pdf) == 0:
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	took := time.Since(start)
	r.logger.Info("PDF rendered",
		zap.String("title", req.Title),
		zap.String("paper", string(req.PaperSize)),
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", took))
	return &RenderResult{PDFData: pdf, RenderDuration: took}, nil
}

// loadDocument replaces the blank page content with doc.
func loadDocument(doc string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
	})
}

// printParams sizes the page for the requested paper. Receipts get a very
// tall page so a long bill is never split.
func printParams(req *RenderRequest) *page.PrintToPDFParams {
	widthMM, heightMM := req.PaperSize.Dimensions()
	if req.PaperSize.IsReceipt() {
		heightMM = receiptHeightMM
	}
	m := req.MarginMM / mmPerInch
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(widthMM / mmPerInch).
		WithPaperHeight(heightMM / mmPerInch).
		WithMarginTop(m).
		WithMarginRight(m).
		WithMarginBottom(m).
		WithMarginLeft(m).
		WithScale(1)
}

// wrapDocument leaves complete documents alone and wraps fragments in a
// UTF-8 page.
func wrapDocument(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if req.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(req.Title))
	}
	fmt.Fprintf(&b, "</head><body>%s</body></html>", req.HTML)
	return b.String()
}

func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}
