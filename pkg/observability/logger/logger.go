// Package logger provides structured logging for the service.
package logger

// Logger defines the interface for structured logging throughout the module.
// All log methods accept a message string followed by key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With creates a child logger whose entries always carry the given
	// key-value pairs.
	With(args ...any) Logger
}

// Noop returns a logger that discards everything. Useful in tests and as a
// safe default before configuration is loaded.
func Noop() Logger { return noopLogger{} }

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}

func (noopLogger) Info(string, ...any) {}

func (noopLogger) Warn(string, ...any) {}

func (noopLogger) Error(string, ...any) {}

func (n noopLogger) With(...any) Logger { return n }
