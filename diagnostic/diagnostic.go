// Package diagnostic models the structured {level, message, file,
// location} values the importer emits instead of ever raising an
// exception across its public API.
package diagnostic

import (
	"fmt"

	"github.com/gofhir/fshimport/ast"
)

// Level is the severity of a diagnostic.
type Level string

// Severity levels.
const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
)

// Diagnostic is a single structured message produced during lexing,
// parsing, preprocessing, or visiting.
type Diagnostic struct {
	Level    Level
	Message  string
	File     string
	Location *ast.TextLocation
}

// String renders the diagnostic as "level: message (file:loc)".
func (d Diagnostic) String() string {
	if d.Location == nil {
		if d.File == "" {
			return fmt.Sprintf("%s: %s", d.Level, d.Message)
		}
		return fmt.Sprintf("%s: %s (%s)", d.Level, d.Message, d.File)
	}
	return fmt.Sprintf("%s: %s (%s:%s)", d.Level, d.Message, d.File, d.Location)
}

// Builder provides a fluent API for constructing a Diagnostic.
type Builder struct {
	d Diagnostic
}

// NewDiagnostic starts a Builder at the given level.
func NewDiagnostic(level Level) *Builder {
	return &Builder{d: Diagnostic{Level: level}}
}

// NewError starts a Builder at error level.
func NewError() *Builder { return NewDiagnostic(LevelError) }

// NewWarning starts a Builder at warn level.
func NewWarning() *Builder { return NewDiagnostic(LevelWarn) }

// NewInfo starts a Builder at info level.
func NewInfo() *Builder { return NewDiagnostic(LevelInfo) }

// Msg sets the message, formatting with fmt.Sprintf if args are given.
func (b *Builder) Msg(format string, args ...any) *Builder {
	if len(args) == 0 {
		b.d.Message = format
	} else {
		b.d.Message = fmt.Sprintf(format, args...)
	}
	return b
}

// In sets the source file.
func (b *Builder) In(file string) *Builder {
	b.d.File = file
	return b
}

// At sets the source location.
func (b *Builder) At(loc ast.TextLocation) *Builder {
	b.d.Location = &loc
	return b
}

// Build returns the constructed Diagnostic.
func (b *Builder) Build() Diagnostic {
	return b.d
}

// Emit is a convenience that builds and emits to sink in one call.
func (b *Builder) Emit(sink Sink) {
	if sink == nil {
		return
	}
	sink.Emit(b.Build())
}
