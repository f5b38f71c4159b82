package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/infrastructure/config"
	"github.com/dokan/papershop/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumByKind(t *testing.T, data metricdata.Aggregation) map[string]int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)
	out := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		kind, _ := dp.Attributes.Value(telemetry.AttrDocumentKind)
		out[kind.AsString()] += dp.Value
	}
	return out
}

func TestLedgerMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewLedgerMetrics(provider.Meter("test"))
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordDocument(ctx, "sale", decimal.NewFromInt(450))
	m.RecordDocument(ctx, "sale", decimal.NewFromInt(120))
	m.RecordDocument(ctx, "purchase", decimal.NewFromInt(3000))
	m.RecordPayment(ctx, "sale", decimal.RequireFromString("99.50"))

	stock := &inventory.Stock{ProductID: uuid.New(), Quantity: decimal.NewFromInt(2), ReorderLevel: decimal.NewFromInt(5)}
	require.NoError(t, m.Handle(ctx, inventory.NewStockLowLevelReachedEvent(stock)))
	assert.Equal(t, []string{inventory.EventTypeStockLowLevelReached}, m.EventTypes())

	data := collect(t, reader)
	assert.Equal(t, map[string]int64{"sale": 2, "purchase": 1}, sumByKind(t, data["ledger_document_total"]))
	assert.Equal(t, map[string]int64{"sale": 1}, sumByKind(t, data["ledger_payment_total"]))

	amounts, ok := data["ledger_document_amount"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var total float64
	for _, dp := range amounts.DataPoints {
		total += dp.Sum
	}
	assert.InDelta(t, 3570, total, 0.001)

	lowStock, ok := data["inventory_low_stock_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, lowStock.DataPoints, 1)
	assert.Equal(t, int64(1), lowStock.DataPoints[0].Value)
}

func useSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := useSpanRecorder(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "invoice", "render",
		telemetry.AttrInvoiceNumber.String("INV-20260305-0001"))
	assert.True(t, span.SpanContext().TraceID().IsValid())
	span.SetAttributes(telemetry.AttrBytes.Int(2048))
	telemetry.RecordError(span, nil)
	telemetry.RecordError(span, errors.New("chrome crashed"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	got := ended[0]
	assert.Equal(t, "invoice.render", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "chrome crashed", got.Status().Description)
	assert.Len(t, got.Events(), 1, "only the non-nil error is recorded")

	attrs := make(map[string]string)
	for _, kv := range got.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, map[string]string{"invoice_number": "INV-20260305-0001", "bytes": "2048"}, attrs)
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), telemetry.Sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), telemetry.Sampler(0).Description())
	assert.Contains(t, telemetry.Sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := config.TelemetryConfig{Enabled: false, ServiceName: "papershop-test"}

	tp, err := telemetry.NewTracerProvider(ctx, cfg, nil)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := telemetry.NewMeterProvider(ctx, cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

type note struct {
	ID   uint `gorm:"primaryKey"`
	Body string
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&note{}))
	return db
}

func TestDBTracingPlugin(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		db := openSQLite(t)
		plugin := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), nil)
		require.NoError(t, plugin.Register(db))
		assert.Nil(t, db.Callback().Query().Get("otel_timing:after_query"))
	})

	t.Run("enabled records statement spans", func(t *testing.T) {
		recorder := useSpanRecorder(t)
		db := openSQLite(t)
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			SlowQueryThresh: time.Nanosecond,
			DBSystem:        "sqlite",
		}, nil)
		require.NoError(t, plugin.Register(db))
		assert.NotNil(t, db.Callback().Query().Get("otel_timing:after_query"))

		ctx := context.Background()
		require.NoError(t, db.WithContext(ctx).Create(&note{Body: "rim of A4"}).Error)
		var found note
		require.NoError(t, db.WithContext(ctx).First(&found).Error)
		assert.Equal(t, "rim of A4", found.Body)

		assert.NotEmpty(t, recorder.Ended())
	})
}
