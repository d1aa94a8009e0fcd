package visitor

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gofhir/fshimport/ast"
	"github.com/gofhir/fshimport/lexer"
	"github.com/gofhir/fshimport/symtab"
)

// parseValue dispatches on the next token(s) in fixed priority order,
// consuming them from c. Returns nil if nothing matched; the calling
// rule visitor reports that as an error diagnostic.
func (v *Visitor) parseValue(c *cursor) ast.LiteralValue {
	t, ok := c.peek()
	if !ok {
		return nil
	}

	switch t.Kind {
	case lexer.STRING:
		c.next()
		return ast.StringValue{Value: unescapeString(t.Text)}

	case lexer.MULTILINE_STRING:
		c.next()
		return ast.MultilineStringValue{Value: dedentMultiline(t.Text)}

	case lexer.NUMBER:
		return v.parseNumberLed(c)

	case lexer.DATETIME:
		c.next()
		return ast.DateTimeValue{Value: t.Text}

	case lexer.TIME:
		c.next()
		return ast.TimeValue{Value: t.Text}

	case lexer.REFERENCE:
		c.next()
		return v.parseReference(t)

	case lexer.CODE:
		c.next()
		return v.parseCodeToken(t)

	case lexer.SEQUENCE:
		if t.Text == "true" || t.Text == "false" {
			c.next()
			return ast.BooleanValue{Value: t.Text == "true"}
		}
	}
	return nil
}

// parseNumberLed handles the three variants that begin with NUMBER:
// a bare NumberValue, a Quantity (NUMBER UNIT), or a Ratio (either of
// the former, followed by ":" and a second quantity-like part).
func (v *Visitor) parseNumberLed(c *cursor) ast.LiteralValue {
	first := v.parseQuantityPart(c)
	if c.is(lexer.COLON) {
		c.next()
		second := v.parseQuantityPart(c)
		return ast.RatioValue{Numerator: first, Denominator: second}
	}
	if first.Unit.Code == "" {
		return ast.NumberValue{Value: first.Value}
	}
	return first
}

// parseQuantityPart consumes `NUMBER UNIT?`, producing a QuantityValue
// with an empty Unit when no UNIT token follows (a bare ratio part).
func (v *Visitor) parseQuantityPart(c *cursor) ast.QuantityValue {
	numTok, _ := c.next()
	val, _ := decimal.NewFromString(numTok.Text)
	q := ast.QuantityValue{Value: val}
	if c.is(lexer.UNIT) {
		unitTok, _ := c.next()
		q.Unit = ast.CodeValue{Code: unwrapUnit(unitTok.Text), System: ast.UCUMSystem}
	}
	return q
}

func unwrapUnit(raw string) string {
	if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
		return raw[1 : len(raw)-1]
	}
	return raw
}

// parseReference handles `Reference(A|B|...)`, resolving only the
// first name before the first `|`.
func (v *Visitor) parseReference(t lexer.Token) ast.LiteralValue {
	inner := t.Text
	inner = strings.TrimPrefix(inner, "Reference(")
	inner = strings.TrimSuffix(inner, ")")
	first := inner
	if i := strings.IndexByte(inner, '|'); i >= 0 {
		first = inner[:i]
	}
	resolved := v.Resolver.Resolve(first,
		symtab.KindAlias, symtab.KindProfile, symtab.KindExtension,
		symtab.KindValueSet, symtab.KindCodeSystem, symtab.KindInstance)
	return ast.ReferenceValue{Reference: resolved}
}

// parseCodeToken handles `[SYSTEM]#code ["display"]` tokens, already
// lexed as one CODE token; the optional display STRING is a separate
// following token consumed by the caller (rule visitors), not here.
func (v *Visitor) parseCodeToken(t lexer.Token) ast.CodeValue {
	text := t.Text
	hashIdx := strings.IndexByte(text, '#')
	system := text[:hashIdx]
	code := text[hashIdx+1:]
	code = unescapeString(code)

	if system != "" {
		system = v.Resolver.Resolve(system, symtab.KindAlias, symtab.KindCodeSystem)
	}
	return ast.CodeValue{Code: code, System: system}
}
