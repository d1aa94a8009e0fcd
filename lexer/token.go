// Package lexer tokenises one FSH-style source document, classifying
// the grammar's literal kinds and keyword/flag tokens.
package lexer

import "github.com/gofhir/fshimport/ast"

// Kind classifies a token.
type Kind int

// Token kinds: the grammar's token classes plus the handful of
// punctuation and keyword tokens the parser needs.
const (
	EOF Kind = iota
	SEQUENCE
	STRING
	MULTILINE_STRING
	NUMBER
	DATETIME
	TIME
	CARD
	REGEX
	UNIT
	CODE
	REFERENCE
	CARET_SEQUENCE
	COMMA_DELIMITED_SEQUENCES
	COMMA_DELIMITED_CODES
	STAR  // leading `*` of a rule line
	COLON // `:` after an entity keyword or metadata key
	FLAG  // MS, SU, ?!
	KEYWORD_ALIAS
	KEYWORD_PROFILE
	KEYWORD_EXTENSION
	KEYWORD_INSTANCE
	KEYWORD_VALUESET
	KEYWORD_FROM
	KEYWORD_CONTAINS
	KEYWORD_ONLY
	KEYWORD_EXCLUDE
	LPAREN
	RPAREN
	PIPE
	COMMA
	EQUALS
)

// String names a Kind for diagnostics and tests.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case SEQUENCE:
		return "SEQUENCE"
	case STRING:
		return "STRING"
	case MULTILINE_STRING:
		return "MULTILINE_STRING"
	case NUMBER:
		return "NUMBER"
	case DATETIME:
		return "DATETIME"
	case TIME:
		return "TIME"
	case CARD:
		return "CARD"
	case REGEX:
		return "REGEX"
	case UNIT:
		return "UNIT"
	case CODE:
		return "CODE"
	case REFERENCE:
		return "REFERENCE"
	case CARET_SEQUENCE:
		return "CARET_SEQUENCE"
	case COMMA_DELIMITED_SEQUENCES:
		return "COMMA_DELIMITED_SEQUENCES"
	case COMMA_DELIMITED_CODES:
		return "COMMA_DELIMITED_CODES"
	case STAR:
		return "STAR"
	case COLON:
		return "COLON"
	case FLAG:
		return "FLAG"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case PIPE:
		return "PIPE"
	case COMMA:
		return "COMMA"
	case EQUALS:
		return "EQUALS"
	default:
		return "KEYWORD"
	}
}

// Token is one lexeme, carrying its classification, literal text, and
// source position.
type Token struct {
	Kind      Kind
	Text      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Loc returns the token's span as an ast.TextLocation.
func (t Token) Loc() ast.TextLocation {
	return ast.TextLocation{
		StartLine:   t.Line,
		StartColumn: t.Column,
		EndLine:     t.EndLine,
		EndColumn:   t.EndColumn,
	}
}

var keywords = map[string]Kind{
	"Alias":     KEYWORD_ALIAS,
	"Profile":   KEYWORD_PROFILE,
	"Extension": KEYWORD_EXTENSION,
	"Instance":  KEYWORD_INSTANCE,
	"ValueSet":  KEYWORD_VALUESET,
	"from":      KEYWORD_FROM,
	"contains":  KEYWORD_CONTAINS,
	"only":      KEYWORD_ONLY,
	"exclude":   KEYWORD_EXCLUDE,
}
