package logfx

import (
	"log/slog"
	"os"
	"strings"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Logger wraps a *slog.Logger, giving call sites DebugContext/InfoContext/
// WarnContext/ErrorContext for free, plus the OTel providers it was wired
// against (noop unless one was passed with WithLoggerProvider,
// WithMeterProvider or WithTracerProvider; Config's OTLP fields are not read).
type Logger struct {
	*slog.Logger

	LoggerProvider otellog.LoggerProvider
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
}

// Option configures a Logger during NewLogger.
type Option func(*loggerOptions)

type loggerOptions struct {
	config         *Config
	loggerProvider otellog.LoggerProvider
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

// WithConfig selects the output level, format and source annotation. Its
// OTLPEnabled and OTLPEndpoint fields are not read by NewLogger.
func WithConfig(config *Config) Option {
	return func(o *loggerOptions) {
		o.config = config
	}
}

// WithLoggerProvider overrides the default noop OTel log bridge.
func WithLoggerProvider(provider otellog.LoggerProvider) Option {
	return func(o *loggerOptions) {
		o.loggerProvider = provider
	}
}

// WithMeterProvider overrides the default noop OTel meter bridge.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *loggerOptions) {
		o.meterProvider = provider
	}
}

// WithTracerProvider overrides the default noop OTel tracer bridge.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *loggerOptions) {
		o.tracerProvider = provider
	}
}

func parseLevel(raw string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a Logger from the given options. With no Config, it
// defaults to an INFO-level, colorized console logger and noop OTel bridges.
func NewLogger(opts ...Option) *Logger {
	options := &loggerOptions{ //nolint:exhaustruct
		config: &Config{ //nolint:exhaustruct
			Level:      "INFO",
			PrettyMode: true,
		},
	}

	for _, opt := range opts {
		opt(options)
	}

	handlerOpts := slog.HandlerOptions{ //nolint:exhaustruct
		Level:     parseLevel(options.config.Level),
		AddSource: options.config.AddSource,
	}

	var handler slog.Handler
	if options.config.PrettyMode {
		handler = newPrettyHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &handlerOpts)
	}

	loggerProvider := options.loggerProvider
	if loggerProvider == nil {
		loggerProvider = NewNoopLoggerProvider()
	}

	meterProvider := options.meterProvider
	if meterProvider == nil {
		meterProvider = NewNoopMeterProvider()
	}

	tracerProvider := options.tracerProvider
	if tracerProvider == nil {
		tracerProvider = NewNoopTracerProvider()
	}

	return &Logger{
		Logger:         slog.New(handler),
		LoggerProvider: loggerProvider,
		MeterProvider:  meterProvider,
		TracerProvider: tracerProvider,
	}
}
