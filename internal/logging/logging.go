// Package logging provides structured logging functionality.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "trade-gate-log", "logs", "tradegate.log"),
		MaxSize:    20,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stderr
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// WithSymbol adds a symbol to the logger context.
func WithSymbol(logger zerolog.Logger, symbol string) zerolog.Logger {
	return logger.With().Str("symbol", symbol).Logger()
}

// WithOperation adds an operation name to the logger context.
func WithOperation(logger zerolog.Logger, operation string) zerolog.Logger {
	return logger.With().Str("operation", operation).Logger()
}
