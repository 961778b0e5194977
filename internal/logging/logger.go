package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger writes diagnostics to stderr so that stdout stays reserved for
// resolved payloads. Warn is the side channel the warn lookup policy uses;
// warnings never alter the success path.
type Logger struct {
	out     io.Writer
	debug   bool
	noColor bool
}

// New creates a logger. With debug disabled, Debug calls are dropped.
func New(debug, noColor bool) *Logger {
	return &Logger{
		out:     os.Stderr,
		debug:   debug,
		noColor: noColor,
	}
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.print("✓", "\033[32m", format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.print("⚠", "\033[33m", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.print("✗", "\033[31m", format, args...)
}

// Debug logs a debug message if debug mode is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.print("[DEBUG]", "\033[36m", format, args...)
}

func (l *Logger) print(symbol, color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.noColor {
		fmt.Fprintf(l.out, "%s %s\n", symbol, msg)
		return
	}
	fmt.Fprintf(l.out, "%s%s\033[0m %s\n", color, symbol, msg)
}

// Secret represents a value that should be redacted in logs
type Secret string

// String implements the Stringer interface, always returning a redacted value
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements the GoStringer interface for %#v formatting
func (s Secret) GoString() string {
	return "[REDACTED]"
}

// Redact replaces sensitive values in a string with [REDACTED]
func Redact(s string, secrets []string) string {
	result := s
	for _, secret := range secrets {
		if secret != "" && len(secret) > 3 { // Only redact non-trivial secrets
			result = strings.ReplaceAll(result, secret, "[REDACTED]")
		}
	}
	return result
}
