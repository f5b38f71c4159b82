package telemetry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dokan/papershop/internal/infrastructure/config"
	"github.com/dokan/papershop/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// captureProcessor keeps the body of every emitted record
type captureProcessor struct {
	mu     sync.Mutex
	bodies []string
}

func (p *captureProcessor) OnEmit(_ context.Context, r *sdklog.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies = append(p.bodies, r.Body().AsString())
	return nil
}

func (p *captureProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool { return true }

func (p *captureProcessor) Shutdown(context.Context) error   { return nil }
func (p *captureProcessor) ForceFlush(context.Context) error { return nil }

func (p *captureProcessor) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.bodies...)
}

func TestLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	base := zap.NewNop()

	for name, cfg := range map[string]config.TelemetryConfig{
		"telemetry off": {Enabled: false, LogsEnabled: true},
		"logs off":      {Enabled: true, LogsEnabled: false},
	} {
		t.Run(name, func(t *testing.T) {
			lp, err := telemetry.NewLoggerProvider(ctx, cfg, nil)
			require.NoError(t, err)
			assert.False(t, lp.IsEnabled())
			assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
			assert.False(t, lp.Core(zapcore.DebugLevel).Enabled(zapcore.ErrorLevel))
			assert.NoError(t, lp.ForceFlush(ctx))
			assert.NoError(t, lp.Shutdown(ctx))
		})
	}
}

func TestLoggerProvider_BridgeTeesEntries(t *testing.T) {
	proc := &captureProcessor{}
	lp := telemetry.NewLoggerProviderWithProcessor("papershop-test", proc, nil)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })
	require.True(t, lp.IsEnabled())

	local, logs := observer.New(zapcore.DebugLevel)
	log := lp.Bridge(zap.New(local), zapcore.InfoLevel)

	log.Debug("Cache warmed")
	log.Info("Sale recorded", zap.String("invoice_no", "INV-20260305-0001"))
	log.With(zap.String("tenant_id", "shop-1")).Warn("Stock below reorder level")
	require.NoError(t, lp.ForceFlush(context.Background()))

	assert.Equal(t, 3, logs.Len(), "the local core still sees every entry")
	assert.Equal(t, []string{"Sale recorded", "Stock below reorder level"}, proc.messages(),
		"debug entries stay local")
}

func TestLoggerProvider_CoreLevel(t *testing.T) {
	lp := telemetry.NewLoggerProviderWithProcessor("papershop-test", &captureProcessor{}, nil)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	core := lp.Core(zapcore.WarnLevel)
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
	assert.Nil(t, core.Check(zapcore.Entry{Level: zapcore.InfoLevel}, nil))
	assert.NotNil(t, core.With([]zapcore.Field{zap.String("k", "v")}).Check(zapcore.Entry{Level: zapcore.ErrorLevel}, nil))
}
