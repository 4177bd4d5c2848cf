package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// DefaultConfig returns the default logger configuration (info, json).
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json"}
}

// ZapLogger is a Logger implementation backed by uber-go/zap.
type ZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// NewZapLogger creates a ZapLogger writing to stdout with the configured
// level and encoding.
func NewZapLogger(cfg Config) (*ZapLogger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "text", "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format: %s", cfg.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &ZapLogger{logger: logger, sugar: logger.Sugar()}, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}

// Debug logs a debug-level message with optional key-value pairs.
func (l *ZapLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }

// Info logs an info-level message with optional key-value pairs.
func (l *ZapLogger) Info(msg string, args ...any) { l.sugar.Infow(msg, args...) }

// Warn logs a warning-level message with optional key-value pairs.
func (l *ZapLogger) Warn(msg string, args ...any) { l.sugar.Warnw(msg, args...) }

// Error logs an error-level message with optional key-value pairs.
func (l *ZapLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

// With creates a child logger with additional key-value pairs.
func (l *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{logger: l.logger, sugar: l.sugar.With(args...)}
}

// Sync flushes buffered log entries. Call before exiting.
func (l *ZapLogger) Sync() error { return l.logger.Sync() }
