package internal

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig captures options for building the structured logger
type LogConfig struct {
	Level   string    // "debug", "info", ...; defaults to info
	Output  io.Writer // defaults to os.Stderr
	Console bool      // human-readable output instead of JSON
}

// NewLogger builds the base logger used for per-video events
func NewLogger(cfg LogConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	}

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	if cfg.Console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen}
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("service", AppName).
		Logger()
}

// LoggerForConfig builds the CLI logger: console output on stderr, debug
// level when verbose, silent below errors when quiet
func LoggerForConfig(config *Config) zerolog.Logger {
	level := config.LogLevel
	switch {
	case config.Quiet:
		level = zerolog.ErrorLevel.String()
	case config.Verbose:
		level = zerolog.DebugLevel.String()
	}
	return NewLogger(LogConfig{Level: level, Console: true})
}

// MCPLogger builds the logger used while serving MCP. Stdio carries the
// protocol, so logs go to a file in the cache directory, or nowhere when
// MCP logging is disabled or the file cannot be opened.
func MCPLogger(config *Config) (zerolog.Logger, func() error) {
	noop := func() error { return nil }
	if !config.MCPLogEnabled {
		return zerolog.Nop(), noop
	}

	if err := os.MkdirAll(config.CacheDir, 0755); err != nil {
		return zerolog.Nop(), noop
	}

	logPath := filepath.Join(config.CacheDir, "mcp.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), noop
	}

	// Callers add the component field
	logger := NewLogger(LogConfig{Level: config.LogLevel, Output: logFile}).
		With().
		Str("transport", "mcp").
		Logger()
	return logger, logFile.Close
}

// WithComponent returns a child logger annotated with the given component name
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
