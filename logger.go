package mmapscan

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with mmapscan-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithPath adds the scanned file path to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithConfig adds the run configuration to the logger.
func (l *Logger) WithConfig(cfg Config) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			"mode", cfg.Mode(),
			"policy", cfg.Policy.String(),
			"block_size", cfg.BlockSize,
			"early_advise", cfg.EarlyAdvise,
			"access", cfg.Access.String(),
		),
	}
}

// LogMapped logs a completed mapping.
func (l *Logger) LogMapped(ctx context.Context, size int) {
	l.DebugContext(ctx, "file mapped",
		"size", size,
	)
}

// LogRun logs the outcome of a run.
func (l *Logger) LogRun(ctx context.Context, report *Report, err error) {
	if err != nil {
		l.ErrorContext(ctx, "scan failed",
			"error", err,
		)
		return
	}
	attrs := []any{
		"elapsed", report.Elapsed,
		"sum", report.Sum,
		"bytes", report.Bytes,
		"blocks", report.Blocks,
		"workers", report.Workers,
	}
	if report.Faults != nil {
		attrs = append(attrs,
			"minor_faults", report.Faults.Minor,
			"major_faults", report.Faults.Major,
		)
	}
	if report.Residency != nil {
		attrs = append(attrs,
			"resident_before", report.Residency.Before,
			"resident_after", report.Residency.After,
			"pages", report.Residency.Pages,
		)
	}
	l.InfoContext(ctx, "scan completed", attrs...)
}
