package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of ledger spans
const TracerName = "papershop-ledger"

// Attribute keys on ledger spans
const (
	AttrTenantID      = attribute.Key("tenant_id")
	AttrInvoiceNumber = attribute.Key("invoice_number")
	AttrBytes         = attribute.Key("bytes")
)

// StartServiceSpan starts an internal span named "{service}.{operation}" on
// the global provider, so it is a no-op until NewTracerProvider installs an
// exporter. The caller ends the span.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "render",
//		telemetry.AttrInvoiceNumber.String(number))
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, service+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError marks span failed with err. A nil err leaves it untouched.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
