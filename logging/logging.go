// Package logging provides a small structured-logging wrapper around zap so
// call sites never need to import zap directly.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is the structured logger interface used throughout this module.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Named(name string) Logger
}

type sugarLogger struct {
	sugar *zap.SugaredLogger
}

func (l *sugarLogger) Debugw(msg string, kv ...interface{}) { l.sugar.Debugw(msg, kv...) }
func (l *sugarLogger) Infow(msg string, kv ...interface{})  { l.sugar.Infow(msg, kv...) }
func (l *sugarLogger) Warnw(msg string, kv ...interface{})  { l.sugar.Warnw(msg, kv...) }
func (l *sugarLogger) Errorw(msg string, kv ...interface{}) { l.sugar.Errorw(msg, kv...) }

func (l *sugarLogger) Named(name string) Logger {
	return &sugarLogger{sugar: l.sugar.Named(name)}
}

func newLoggerConfig(level zapcore.Level) zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// NewLogger returns a JSON-encoded, info-level production logger named
// name.
func NewLogger(name string) Logger {
	cfg := newLoggerConfig(zapcore.InfoLevel)
	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}
	return &sugarLogger{sugar: base.Sugar().Named(name)}
}

// NewTestLogger returns a debug-level, console-encoded logger that writes
// through the given testing.TB, for use in _test.go files.
func NewTestLogger(tb testing.TB) Logger {
	base := zaptest.NewLogger(tb, zaptest.Level(zapcore.DebugLevel))
	return &sugarLogger{sugar: base.Sugar()}
}
