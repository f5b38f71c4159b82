package telemetry

import (
	"context"

	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AttrDocumentKind labels ledger metrics with "sale" or "purchase"
const AttrDocumentKind = attribute.Key("document_kind")

// amountBuckets are histogram boundaries in taka
var amountBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 25000, 50000, 100000}

// moneyFlow pairs a count with an amount distribution
type moneyFlow struct {
	count  metric.Int64Counter
	amount metric.Float64Histogram
}

func newMoneyFlow(meter metric.Meter, name, description, unit string) (moneyFlow, error) {
	count, err := meter.Int64Counter(name+"_total", metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return moneyFlow{}, err
	}
	amount, err := meter.Float64Histogram(name+"_amount",
		metric.WithDescription(description+", by amount"),
		metric.WithUnit("BDT"),
		metric.WithExplicitBucketBoundaries(amountBuckets...),
	)
	if err != nil {
		return moneyFlow{}, err
	}
	return moneyFlow{count: count, amount: amount}, nil
}

func (f moneyFlow) record(ctx context.Context, kind string, value decimal.Decimal) {
	attrs := metric.WithAttributes(AttrDocumentKind.String(kind))
	f.count.Add(ctx, 1, attrs)
	f.amount.Record(ctx, value.InexactFloat64(), attrs)
}

// LedgerMetrics counts committed trade documents, payments and low stock
// crossings. The trade services use it as their activity recorder and the
// event bus delivers low-stock events to it.
type LedgerMetrics struct {
	documents moneyFlow
	payments  moneyFlow
	lowStock  metric.Int64Counter
}

// NewLedgerMetrics registers the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	documents, err := newMoneyFlow(meter, "ledger_document", "Committed sales and purchases", "{document}")
	if err != nil {
		return nil, err
	}
	payments, err := newMoneyFlow(meter, "ledger_payment", "Payments applied to sales and purchases", "{payment}")
	if err != nil {
		return nil, err
	}
	lowStock, err := meter.Int64Counter("inventory_low_stock_total",
		metric.WithDescription("Stock rows that dropped to their reorder level"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return nil, err
	}
	return &LedgerMetrics{documents: documents, payments: payments, lowStock: lowStock}, nil
}

// RecordDocument counts a committed sale or purchase
func (m *LedgerMetrics) RecordDocument(ctx context.Context, kind string, grandTotal decimal.Decimal) {
	m.documents.record(ctx, kind, grandTotal)
}

// RecordPayment counts a payment applied after the document was created
func (m *LedgerMetrics) RecordPayment(ctx context.Context, kind string, amount decimal.Decimal) {
	m.payments.record(ctx, kind, amount)
}

func (m *LedgerMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	if event.EventType() == inventory.EventTypeStockLowLevelReached {
		m.lowStock.Add(ctx, 1)
	}
	return nil
}

func (m *LedgerMetrics) EventTypes() []string {
	return []string{inventory.EventTypeStockLowLevelReached}
}

var _ shared.EventHandler = (*LedgerMetrics)(nil)
