// ABOUTME: Structured logging setup built on charmbracelet/log
// ABOUTME: Provides level parsing, component loggers, and a discard logger for tests
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w at the named level
func New(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           ParseLevel(level),
	})
}

// Default returns a stderr logger at info level
func Default() *log.Logger {
	return New(os.Stderr, "info")
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// Component returns a child logger tagged with the component name
func Component(logger *log.Logger, name string) *log.Logger {
	if logger == nil {
		logger = Discard()
	}
	return logger.With("component", name)
}

// ParseLevel maps a level name to a log level, defaulting to info
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// LevelForFlags picks a level from the CLI verbosity flags
func LevelForFlags(verbose, quiet bool, fallback string) string {
	switch {
	case verbose:
		return "debug"
	case quiet:
		return "error"
	default:
		return fallback
	}
}
