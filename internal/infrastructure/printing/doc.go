// Package printing renders sale invoices to PDF.
//
// An invoice is first executed against an html/template with money and date
// helpers, then printed by headless Chrome through chromedp:
//
//	pdf, err := printing.NewChromedpRenderer(cfg.Printing, logger)
//	invoices := printing.NewInvoiceRenderer(printing.NewTemplateEngine(), pdf, printing.InvoiceOptions{})
//	saleService.SetInvoiceRenderer(orgRepo, invoices)
package printing
