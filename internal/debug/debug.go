// Package debug provides context-based debug mode, request correlation
// and the process-wide slog setup.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	debugKey     contextKey = "debug_enabled"
	requestIDKey contextKey = "request_id"
)

// Log formats accepted by SetupLogger.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// WithRequestID attaches a correlation ID that Logger adds to every record.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the correlation ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logger returns the default logger, tagged with the request ID when ctx carries one.
func Logger(ctx context.Context) *slog.Logger {
	if id := RequestID(ctx); id != "" {
		return slog.Default().With("request_id", id)
	}
	return slog.Default()
}

// NewHandler builds a slog handler writing to w. Debug lowers the level from warn to debug.
func NewHandler(w io.Writer, debugEnabled bool, format string) (slog.Handler, error) {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}
	return NewLevelHandler(w, level, format)
}

// NewLevelHandler builds a text or JSON handler at an explicit level.
func NewLevelHandler(w io.Writer, level slog.Leveler, format string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return slog.NewTextHandler(w, opts), nil
	case FormatJSON:
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: must be text or json", format)
	}
}

// SetupLogger configures the default slog logger on stderr.
func SetupLogger(debugEnabled bool, format string) error {
	handler, err := NewHandler(os.Stderr, debugEnabled, format)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
