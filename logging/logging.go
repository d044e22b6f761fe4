// Package logging provides the structured logger used across the mesh
// compression engine and its block-input adapter.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Logger is the structured logging interface accepted by every public
// constructor in this module. It intentionally exposes only the
// leveled, keys-and-values style used by the compression and
// blockmesh packages for their best-effort/logged failure paths -
// none of those paths return an error to the caller.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Named returns a descendant logger identified additionally by name.
	Named(name string) Logger
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Debugw(msg string, kv ...interface{}) { l.sugar.Debugw(msg, kv...) }
func (l *zapLogger) Infow(msg string, kv ...interface{})  { l.sugar.Infow(msg, kv...) }
func (l *zapLogger) Warnw(msg string, kv ...interface{})  { l.sugar.Warnw(msg, kv...) }
func (l *zapLogger) Errorw(msg string, kv ...interface{}) { l.sugar.Errorw(msg, kv...) }

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{sugar: l.sugar.Named(name)}
}

// config mirrors the teacher's NewLoggerConfig: console encoding, colored
// levels, no stack traces, stdout/stderr split.
func config() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// NewLogger returns a new logger named name that emits Info-and-above to
// stdout.
func NewLogger(name string) Logger {
	built := zap.Must(config().Build())
	return &zapLogger{sugar: built.Sugar().Named(name)}
}

// NewDebugLogger returns a new logger named name that emits Debug-and-above
// to stdout.
func NewDebugLogger(name string) Logger {
	cfg := config()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	built := zap.Must(cfg.Build())
	return &zapLogger{sugar: built.Sugar().Named(name)}
}

// NewNoopLogger returns a logger that discards everything written to it.
func NewNoopLogger() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

// NewTestLogger returns a logger suitable for use from a *testing.T: it
// writes to stderr and is synced during test teardown, ignoring any Sync
// error.
func NewTestLogger(tb testing.TB) Logger {
	cfg := config()
	cfg.OutputPaths = []string{"stderr"}
	built := zap.Must(cfg.Build())
	tb.Cleanup(func() {
		_ = built.Sync()
	})
	return &zapLogger{sugar: built.Sugar().Named(tb.Name())}
}

// NewObservedTestLogger returns a logger plus an observer.ObservedLogs
// sink so a test can assert on emitted log lines, e.g. that a
// spatial-index insertion failure or a prune bookkeeping mismatch was
// logged rather than silently swallowed.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	zl := zap.New(core)
	tb.Cleanup(func() {
		_ = zl.Sync()
	})
	return &zapLogger{sugar: zl.Sugar().Named(tb.Name())}, logs
}
