package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CurrencySymbol prefixes formatted money
const CurrencySymbol = "৳"

// TemplateEngine executes html/template documents with formatting helpers
type TemplateEngine struct {
	funcMap  template.FuncMap
	location *time.Location
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLocation sets the time zone dates are printed in
func WithLocation(loc *time.Location) TemplateEngineOption {
	return func(e *TemplateEngine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{location: time.UTC}
	e.funcMap = template.FuncMap{
		"formatMoney":    formatMoney,
		"formatMoneyRaw": formatMoneyRaw,
		"formatQty":      formatQty,
		"formatDate":     e.formatDate,
		"formatDateTime": e.formatDateTime,
		"title":          titleCase,
		"upper":          strings.ToUpper,
		"statusText":     statusText,
		"add":            func(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) },
		"sub":            func(a, b decimal.Decimal) decimal.Decimal { return a.Sub(b) },
		"positive":       func(d decimal.Decimal) bool { return d.IsPositive() },
		"inc":            func(i int) int { return i + 1 },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RenderString executes a template string against data
func (e *TemplateEngine) RenderString(_ context.Context, name, content string, data interface{}) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// formatMoney formats an amount with the currency symbol, e.g. ৳1,234.50
func formatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + CurrencySymbol + formatMoneyRaw(d.Abs())
	}
	return CurrencySymbol + formatMoneyRaw(d)
}

// formatMoneyRaw formats an amount with thousand separators and two decimals
func formatMoneyRaw(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return sign + result.String() + "." + decPart
}

// formatQty prints whole quantities without decimals
func formatQty(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.Truncate(0).String()
	}
	return d.StringFixed(2)
}

func (e *TemplateEngine) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(e.location).Format("02 Jan 2006")
}

func (e *TemplateEngine) formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(e.location).Format("02 Jan 2006 15:04")
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

var statusLabels = map[string]string{
	"paid":    "Paid",
	"partial": "Partially paid",
	"unpaid":  "Due",
}

// statusText maps a payment status to its printed label
func statusText(status interface{}) string {
	s := fmt.Sprint(status)
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return titleCase(s)
}
