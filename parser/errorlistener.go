package parser

import (
	"github.com/gofhir/fshimport/ast"
	"github.com/gofhir/fshimport/diagnostic"
	"github.com/gofhir/fshimport/lexer"
)

// ErrorListener collects structured diagnostics encountered while
// grouping and parsing a token stream, instead of the parser ever
// panicking. A parse with a non-empty ErrorListener still returns a
// best-effort Node tree; parsing never throws.
type ErrorListener struct {
	File string
	Sink diagnostic.Sink
}

// NewErrorListener creates a listener reporting to sink, tagging every
// diagnostic with file.
func NewErrorListener(file string, sink diagnostic.Sink) *ErrorListener {
	if sink == nil {
		sink = diagnostic.NopSink{}
	}
	return &ErrorListener{File: file, Sink: sink}
}

// SyntaxError reports a malformed construct at the given token's
// location with a human-readable message.
func (e *ErrorListener) SyntaxError(at lexer.Token, msg string) {
	loc := at.Loc()
	diagnostic.NewError().Msg("%s", msg).In(e.File).At(loc).Emit(e.Sink)
}

// SyntaxErrorAt reports a malformed construct at an explicit location,
// for cases (e.g. unexpected end of input) with no offending token.
func (e *ErrorListener) SyntaxErrorAt(loc ast.TextLocation, msg string) {
	diagnostic.NewError().Msg("%s", msg).In(e.File).At(loc).Emit(e.Sink)
}
