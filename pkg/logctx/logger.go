// Package logctx defines the renderer's logging seam: callers depend
// only on the Logger interface (never a concrete logger), matching the
// teacher's core.Logger/DefaultLogger split but backing the default
// implementation with go.uber.org/zap instead of a bare fmt.Printf
// wrapper.
package logctx

import "go.uber.org/zap"

// Logger is the minimal logging contract the renderer depends on.
// Shading-level hot paths never log; only iteration/pass boundaries,
// photon-map build timings, and configuration errors go through it.
type Logger interface {
	Printf(format string, args ...interface{})
}

// zapLogger backs Logger with a zap.SugaredLogger.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger builds the default production Logger, a development
// zap config (console-encoded, human-readable) since this is a CLI
// tool rather than a long-running service.
func NewZapLogger() Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}
	return &zapLogger{s: z.Sugar()}
}

func (l *zapLogger) Printf(format string, args ...interface{}) {
	l.s.Infof(format, args...)
}

// Nop is a Logger that discards everything, useful for tests.
type Nop struct{}

func (Nop) Printf(string, ...interface{}) {}
