// Package logging wraps charmbracelet/log for maudfmt. All diagnostics go
// to stderr so that stdout only ever carries formatted source or reports.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Process-wide fallback logger.
var fallback atomic.Pointer[log.Logger]

// ParseLevel maps a level name to a log level. Unknown names and the empty
// string mean info; "warning" is accepted for warn.
func ParseLevel(level string) log.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// New returns a stderr logger at level.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a logger writing to w at level, without timestamps.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: ParseLevel(level)})
}

// ForFile tags logger with the file being formatted.
func ForFile(logger *log.Logger, path string) *log.Logger {
	if path == "" {
		return logger
	}
	return logger.With(FieldPath, path)
}

// ForInvocation tags logger with a template invocation and its 1-based line.
func ForInvocation(logger *log.Logger, macro string, line int) *log.Logger {
	return logger.With(FieldMacro, macro, FieldLine, line)
}

// Default returns the process-wide logger, creating an info logger on
// first use.
func Default() *log.Logger {
	if l := fallback.Load(); l != nil {
		return l
	}
	fallback.CompareAndSwap(nil, New("info"))
	return fallback.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	fallback.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
