// Package logging is a thin, context-aware wrapper over log/slog: level
// parsing from a string and a package-level default logger every
// subsystem shares unless overridden.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// ParseLevel converts a string log level to slog.Level. Valid levels:
// debug, info, warn, error. Defaults to info for anything else.
func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, nil
	}
}

// SetDefault installs l as the package-wide default logger.
func SetDefault(l *slog.Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the current package-wide logger.
func Default() *slog.Logger { return defaultLogger }

// For returns a logger scoped to component, e.g. For("memory.compression").
func For(component string) *slog.Logger {
	return defaultLogger.With("component", component)
}

// FromContext returns a request-scoped logger if one was attached with
// WithContext, otherwise the package default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

type ctxKey struct{}

// WithContext attaches l to ctx for later retrieval via FromContext.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
