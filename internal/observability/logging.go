// Package observability provides structured logging, Prometheus metrics and
// health probes for hederad.
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevelEnv overrides the configured log level when set.
const LogLevelEnv = "HEDERAD_LOG_LEVEL"

// NewLogger creates a structured JSON logger for a component.
// Level comes from HEDERAD_LOG_LEVEL, info by default.
func NewLogger(component string) zerolog.Logger {
	return NewLoggerWithLevel(component, ParseLogLevel(os.Getenv(LogLevelEnv)))
}

// NewLoggerWithLevel creates a logger with an explicit level.
func NewLoggerWithLevel(component string, level zerolog.Level) zerolog.Logger {
	return newLogger(os.Stdout, component, level)
}

// NewLoggerFromConfig creates a logger honouring the configured level unless
// HEDERAD_LOG_LEVEL is set.
func NewLoggerFromConfig(component, configured string) zerolog.Logger {
	if env := os.Getenv(LogLevelEnv); env != "" {
		configured = env
	}
	return NewLoggerWithLevel(component, ParseLogLevel(configured))
}

func newLogger(w io.Writer, component string, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// ParseLogLevel maps a level name to a zerolog level, defaulting to info.
func ParseLogLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
