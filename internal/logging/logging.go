// Package logging wraps zap with the repricing engine's structured-field
// conventions, generalized from common/libraries/go/iaros-core/logging.go.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with repricer-specific context and helpers.
type Logger struct {
	*zap.Logger
	serviceName string
	environment string
}

// Config configures a Logger. Zero value picks sane defaults.
type Config struct {
	Level       string
	ServiceName string
	Environment string
	OutputPath  string
	Format      string // "json" or "console"
}

// New builds a Logger from Config, falling back to info/json/stdout.
func New(serviceName string, opts ...Config) *Logger {
	cfg := Config{
		Level:       "info",
		ServiceName: serviceName,
		Environment: getEnv("REPRICER_ENV", "development"),
		OutputPath:  "stdout",
		Format:      "json",
	}
	if len(opts) > 0 {
		o := opts[0]
		if o.Level != "" {
			cfg.Level = o.Level
		}
		if o.Environment != "" {
			cfg.Environment = o.Environment
		}
		if o.OutputPath != "" {
			cfg.OutputPath = o.OutputPath
		}
		if o.Format != "" {
			cfg.Format = o.Format
		}
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var writer zapcore.WriteSyncer
	if cfg.OutputPath == "stdout" || cfg.OutputPath == "" {
		writer = zapcore.AddSync(os.Stdout)
	} else {
		file, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			writer = zapcore.AddSync(os.Stdout)
		} else {
			writer = zapcore.AddSync(file)
		}
	}

	core := zapcore.NewCore(encoder, writer, level)
	base := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).With(
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
	)

	return &Logger{Logger: base, serviceName: cfg.ServiceName, environment: cfg.Environment}
}

func (l *Logger) with(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...), serviceName: l.serviceName, environment: l.environment}
}

// WithEventID binds a per-event correlation id to every subsequent log line.
func (l *Logger) WithEventID(eventID string) *Logger {
	return l.with(zap.String("event_id", eventID))
}

// WithProduct binds the product key to every subsequent log line.
func (l *Logger) WithProduct(asin, sellerID, sku string) *Logger {
	return l.with(zap.String("asin", asin), zap.String("seller_id", sellerID), zap.String("sku", sku))
}

func (l *Logger) WithError(err error) *Logger {
	return l.with(zap.Error(err))
}

// LogEligibilitySkip records a skip decision from the Eligibility Gate or
// any downstream stage, at the volume the pipeline expects (most events
// that don't need a price change skip, and that's not noteworthy above debug).
func (l *Logger) LogEligibilitySkip(stage, reason string) {
	l.Debug("repricing skipped", zap.String("stage", stage), zap.String("reason", reason))
}

// LogPriceCalculated records a successful price calculation.
func (l *Logger) LogPriceCalculated(strategy string, oldPrice, newPrice string) {
	l.Info("price calculated",
		zap.String("strategy", strategy),
		zap.String("old_price", oldPrice),
		zap.String("new_price", newPrice),
	)
}

// LogStoreCall records a Store round-trip, the way iaros-core's
// DatabaseQueryLogger records gorm queries.
func (l *Logger) LogStoreCall(op string, hit bool, err error) {
	if err != nil {
		l.Warn("store call failed", zap.String("op", op), zap.Error(err))
		return
	}
	l.Debug("store call", zap.String("op", op), zap.Bool("hit", hit))
}

// LogIngress records an accepted/rejected inbound event at the ingress boundary.
func (l *Logger) LogIngress(source, outcome string) {
	l.Info("ingress event", zap.String("source", source), zap.String("outcome", outcome))
}

// LogUnmappedTimezone warns that a seller/marketplace pair lacks an explicit
// reset-window timezone, per Design Notes §9(ii). It logs on every call;
// repeated warnings for the same pair are not suppressed.
func (l *Logger) LogUnmappedTimezone(sellerID, marketplace string) {
	l.Warn("reset window timezone unmapped, defaulting to UTC",
		zap.String("seller_id", sellerID), zap.String("marketplace", marketplace))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

var global *Logger

// InitGlobal initializes the package-level logger, called once from main.
func InitGlobal(serviceName string, opts ...Config) {
	global = New(serviceName, opts...)
}

// Global returns the package-level logger, building a default one if needed.
func Global() *Logger {
	if global == nil {
		global = New("repricer-engine")
	}
	return global
}
