// Package logging wraps zap the same way tig's internal/logging does,
// substituting a per-comparison run ID for the original's per-request
// ID: there is no HTTP request here, but every invocation of the tool
// still benefits from being able to correlate its log lines (spec.md
// §3's debug flag has "no effect on output" — its entire purpose is
// these log lines).
package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.Logger
}

type runIDKey struct{}

// WithRunID attaches a run ID to a context so a single Logger can be
// threaded through a comparison and tag every line it emits.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// NewLogger builds a Logger at the given level ("debug", "warn", etc).
// The driver picks "debug" when spec.md's debug option is set and
// "warn" otherwise, so debug-level lines (cache hits, watch-triggered
// reruns) are silent by default.
func NewLogger(level string) (*Logger, error) {
	cfg := zap.NewProductionConfig()

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{logger}, nil
}

// WithRunID returns a logger tagged with the run ID carried in ctx, if
// any, falling back to the bare logger otherwise.
func (l *Logger) WithRunID(ctx context.Context) *zap.Logger {
	if runID, ok := ctx.Value(runIDKey{}).(string); ok {
		return l.With(zap.String("run_id", runID))
	}
	return l.Logger
}

// ForDebug returns the zap level name the driver should build a Logger
// with given spec.md's debug flag.
func ForDebug(debug bool) string {
	if debug {
		return "debug"
	}
	return "warn"
}
