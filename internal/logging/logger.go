package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance
	Logger = NewSafeLogger(zap.NewNop())
)

// SafeLogger wraps a zap logger so callers never have to nil-check it.
// A nil *SafeLogger, or one wrapping a nil zap logger, discards everything.
type SafeLogger struct {
	logger *zap.Logger
}

// NewSafeLogger wraps an existing zap logger
func NewSafeLogger(logger *zap.Logger) *SafeLogger {
	return &SafeLogger{logger: logger}
}

// InitLogger initializes the global logger
func InitLogger() error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Set log level from environment
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(logLevel)); err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	zl, err := config.Build(
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("service", "eservice-portal"),
			zap.String("version", "v1"),
		),
	)
	if err != nil {
		return err
	}

	Logger = NewSafeLogger(zl)
	return nil
}

func (l *SafeLogger) core() *zap.Logger {
	if l == nil || l.logger == nil {
		return nil
	}
	return l.logger
}

// Unwrap returns the underlying zap logger, never nil
func (l *SafeLogger) Unwrap() *zap.Logger {
	if zl := l.core(); zl != nil {
		return zl
	}
	return zap.NewNop()
}

// With returns a child logger carrying the given fields
func (l *SafeLogger) With(fields ...zap.Field) *SafeLogger {
	zl := l.core()
	if zl == nil {
		return l
	}
	return &SafeLogger{logger: zl.With(fields...)}
}

func (l *SafeLogger) Debug(msg string, fields ...zap.Field) {
	if zl := l.core(); zl != nil {
		zl.Debug(msg, fields...)
	}
}

func (l *SafeLogger) Info(msg string, fields ...zap.Field) {
	if zl := l.core(); zl != nil {
		zl.Info(msg, fields...)
	}
}

func (l *SafeLogger) Warn(msg string, fields ...zap.Field) {
	if zl := l.core(); zl != nil {
		zl.Warn(msg, fields...)
	}
}

func (l *SafeLogger) Error(msg string, fields ...zap.Field) {
	if zl := l.core(); zl != nil {
		zl.Error(msg, fields...)
	}
}

// Fatal logs and exits the process. On a discarded logger it still exits.
func (l *SafeLogger) Fatal(msg string, fields ...zap.Field) {
	if zl := l.core(); zl != nil {
		zl.Fatal(msg, fields...)
	}
	os.Exit(1)
}

// Sync flushes any buffered log entries
func (l *SafeLogger) Sync() error {
	if zl := l.core(); zl != nil {
		return zl.Sync()
	}
	return nil
}
