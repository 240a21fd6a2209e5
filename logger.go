package pointgrid

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pointgrid-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithLeafCount adds a leaf count field to the logger.
func (l *Logger) WithLeafCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("leaves", count),
	}
}

// WithGroups adds a group name list field to the logger.
func (l *Logger) WithGroups(groups []string) *Logger {
	return &Logger{
		Logger: l.Logger.With("groups", groups),
	}
}

// LogDeleteGroups logs a group deletion operation.
func (l *Logger) LogDeleteGroups(ctx context.Context, groups []string, invert bool, removed int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "group deletion failed",
			"groups", groups,
			"invert", invert,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "group deletion completed",
			"groups", groups,
			"invert", invert,
			"points_removed", removed,
		)
	}
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(ctx context.Context, op string, leaves int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot completed",
			"op", op,
			"leaves", leaves,
		)
	}
}
