// Package logger provides diagnostic logging for claude-hooks.
//
// Diagnostic logs are plain text lines written to a single file and are
// unrelated to the JSON-lines event logs kept per project.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const (
	// LogFilePermissions is the mode for the diagnostic log file.
	LogFilePermissions = 0o600

	// LogDirPermissions is the mode for the diagnostic log directory.
	LogDirPermissions = 0o755
)

// Logger provides a structured logging interface.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// SlogAdapter implements Logger on top of slog.
type SlogAdapter struct {
	log    *slog.Logger
	closer io.Closer
}

// NewFileLogger opens (or creates) the log file at path and returns a logger
// writing to it. Missing parent directories are created.
func NewFileLogger(path string, debug, trace bool) (*SlogAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(path), LogDirPermissions); err != nil {
		return nil, errors.Wrap(err, "creating log directory")
	}

	//nolint:gosec // path comes from configuration
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, errors.Wrap(err, "opening log file")
	}

	adapter := NewFileLoggerWithWriter(file, debug, trace)
	adapter.closer = file

	return adapter, nil
}

// NewFileLoggerWithWriter creates a logger writing to w.
func NewFileLoggerWithWriter(w io.Writer, debug, trace bool) *SlogAdapter {
	level := LevelFromFlags(debug, trace)

	return &SlogAdapter{log: slog.New(NewLineHandler(w, level))}
}

// Debug logs debug-level messages.
func (a *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	a.log.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

// Info logs info-level messages.
func (a *SlogAdapter) Info(msg string, keysAndValues ...any) {
	a.log.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

// Error logs error-level messages.
func (a *SlogAdapter) Error(msg string, keysAndValues ...any) {
	a.log.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}

// With returns a new logger with additional base key-value pairs.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (a *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{log: a.log.With(keysAndValues...)}
}

// Close closes the underlying file, if any.
func (a *SlogAdapter) Close() error {
	if a.closer == nil {
		return nil
	}

	return a.closer.Close()
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}
