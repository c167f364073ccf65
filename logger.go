package kdego

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with kdego-specific helpers so the engines log
// with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler to stderr at Info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// LogBuild logs the outcome of an engine construction.
func (l *Logger) LogBuild(units int, duration time.Duration, err error) {
	if err != nil {
		l.Error("build failed",
			"units", units,
			"duration", duration,
			"error", err,
		)
	} else {
		l.Debug("build completed",
			"units", units,
			"duration", duration,
		)
	}
}

// LogQuery logs the outcome of a density query.
func (l *Logger) LogQuery(points int, duration time.Duration, err error) {
	if err != nil {
		l.Error("query failed",
			"points", points,
			"error", err,
		)
	} else {
		l.Debug("query completed",
			"points", points,
			"duration", duration,
		)
	}
}
