// Package logger renders the importer's diagnostics and trace output
// as leveled log lines, each optionally tagged with the source file
// and span it concerns, so anything reading the stream gets
// file:line:column positions without parsing message text.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gofhir/fshimport/ast"
)

// Level represents the logging level.
type Level int

// Log levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return ""
	}
}

// Logger writes leveled, location-tagged log lines.
type Logger struct {
	mu     sync.Mutex
	level  Level
	output io.Writer
}

var defaultLogger = &Logger{
	level:  LevelInfo,
	output: os.Stderr,
}

// Default returns the default logger.
func Default() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// New creates a new logger.
func New(output io.Writer, level Level) *Logger {
	return &Logger{
		level:  level,
		output: output,
	}
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// Log writes one line at level. file and loc, when non-zero, tag the
// line with the source position it concerns; messages with no position
// (configuration problems, phase traces) pass "" and nil.
func (l *Logger) Log(level Level, file string, loc *ast.TextLocation, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level || level >= LevelNone {
		return
	}

	msg := fmt.Sprintf(format, args...)
	switch {
	case file != "" && loc != nil:
		_, _ = fmt.Fprintf(l.output, "[%s] %s:%d:%d %s\n", level, file, loc.StartLine, loc.StartColumn, msg)
	case file != "":
		_, _ = fmt.Fprintf(l.output, "[%s] %s: %s\n", level, file, msg)
	default:
		_, _ = fmt.Fprintf(l.output, "[%s] %s\n", level, msg)
	}
}

// Debug logs a position-less debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.Log(LevelDebug, "", nil, format, args...)
}

// Info logs a position-less info message.
func (l *Logger) Info(format string, args ...any) {
	l.Log(LevelInfo, "", nil, format, args...)
}

// Warn logs a position-less warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.Log(LevelWarn, "", nil, format, args...)
}

// Error logs a position-less error message.
func (l *Logger) Error(format string, args ...any) {
	l.Log(LevelError, "", nil, format, args...)
}

// Disable disables all logging.
func (l *Logger) Disable() {
	l.SetLevel(LevelNone)
}
