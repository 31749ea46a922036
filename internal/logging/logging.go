// Package logging wraps zap for the structured, leveled logging used
// by the rewrite orchestrator.
package logging

import "go.uber.org/zap"

// Logger is the narrow logging surface the rewrite orchestrator depends
// on, so a caller can substitute any sink
// without pulling zap into their own import graph.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

// zapLogger adapts *zap.SugaredLogger to Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Debugw(msg string, kv ...any) { l.sugar.Debugw(msg, kv...) }
func (l *zapLogger) Infow(msg string, kv ...any)  { l.sugar.Infow(msg, kv...) }
func (l *zapLogger) Warnw(msg string, kv ...any)  { l.sugar.Warnw(msg, kv...) }
func (l *zapLogger) Errorw(msg string, kv ...any) { l.sugar.Errorw(msg, kv...) }

// New builds a Logger backed by a production zap configuration.
func New() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: z.Sugar()}, nil
}

// Must is New, panicking on error; for callers that treat a broken
// logging pipeline as a startup-time fatal condition.
func Must() Logger {
	l, err := New()
	if err != nil {
		panic(err)
	}
	return l
}

// nopLogger discards everything; the orchestrator's default when a
// caller does not inject a Logger via Option.
type nopLogger struct{}

func (nopLogger) Debugw(string, ...any) {}
func (nopLogger) Infow(string, ...any)  {}
func (nopLogger) Warnw(string, ...any)  {}
func (nopLogger) Errorw(string, ...any) {}

// NopLogger is a Logger that discards every call.
var NopLogger Logger = nopLogger{}
