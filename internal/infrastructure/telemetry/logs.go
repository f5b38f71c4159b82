package telemetry

import (
	"context"
	"fmt"

	"github.com/dokan/papershop/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider ships zap entries to the collector as OTLP log records.
// It is inert unless both telemetry and log export are switched on.
type LoggerProvider struct {
	provider *sdklog.LoggerProvider
	logger   *zap.Logger
	name     string
}

// NewLoggerProvider exports log records over OTLP/gRPC in batches and
// installs itself as the global log provider.
func NewLoggerProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*LoggerProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	lp := &LoggerProvider{logger: logger, name: cfg.ServiceName}
	if !cfg.Enabled || !cfg.LogsEnabled {
		logger.Debug("Log export disabled")
		return lp, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp log exporter: %w", err)
	}
	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	return newLoggerProvider(logger, cfg.ServiceName,
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	), nil
}

// NewLoggerProviderWithProcessor builds a provider around an existing
// processor, e.g. a simple processor over an in-memory exporter.
func NewLoggerProviderWithProcessor(serviceName string, processor sdklog.Processor, logger *zap.Logger) *LoggerProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newLoggerProvider(logger, serviceName, sdklog.WithProcessor(processor))
}

func newLoggerProvider(logger *zap.Logger, name string, opts ...sdklog.LoggerProviderOption) *LoggerProvider {
	lp := &LoggerProvider{
		provider: sdklog.NewLoggerProvider(opts...),
		logger:   logger,
		name:     name,
	}
	global.SetLoggerProvider(lp.provider)
	logger.Info("Log export enabled", zap.String("service_name", name))
	return lp
}

func (lp *LoggerProvider) IsEnabled() bool { return lp.provider != nil }

// Core returns a zap core that forwards entries at or above level to the
// provider. A disabled provider yields a no-op core.
func (lp *LoggerProvider) Core(level zapcore.LevelEnabler) zapcore.Core {
	if lp.provider == nil {
		return zapcore.NewNopCore()
	}
	return &levelFilterCore{
		Core:  otelzap.NewCore(lp.name, otelzap.WithLoggerProvider(lp.provider)),
		level: level,
	}
}

// Bridge tees base into the provider. The returned logger keeps base's
// options such as caller annotation and attached fields.
func (lp *LoggerProvider) Bridge(base *zap.Logger, level zapcore.LevelEnabler) *zap.Logger {
	if lp.provider == nil {
		return base
	}
	otelCore := lp.Core(level)
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, otelCore)
	}))
}

func (lp *LoggerProvider) ForceFlush(ctx context.Context) error {
	if lp.provider == nil {
		return nil
	}
	return lp.provider.ForceFlush(ctx)
}

// Shutdown exports pending records, giving up after shutdownTimeout.
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := lp.provider.Shutdown(ctx); err != nil {
		lp.logger.Error("Logger provider shutdown failed", zap.Error(err))
		return fmt.Errorf("shutdown logger provider: %w", err)
	}
	return nil
}

// levelFilterCore drops entries below level; otelzap forwards everything.
type levelFilterCore struct {
	zapcore.Core
	level zapcore.LevelEnabler
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return c.level.Enabled(lvl) && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), level: c.level}
}

func (c *levelFilterCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(ent.Level) {
		return ce
	}
	return c.Core.Check(ent, ce)
}
