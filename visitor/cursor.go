package visitor

import "github.com/gofhir/fshimport/lexer"

// cursor is a minimal forward-only reader over one rule/component
// line's token run, shared by the rule, component, and value visitors.
type cursor struct {
	toks []lexer.Token
	pos  int
}

func newCursor(toks []lexer.Token) *cursor { return &cursor{toks: toks} }

func (c *cursor) done() bool { return c.pos >= len(c.toks) }

func (c *cursor) peek() (lexer.Token, bool) {
	if c.done() {
		return lexer.Token{}, false
	}
	return c.toks[c.pos], true
}

func (c *cursor) next() (lexer.Token, bool) {
	t, ok := c.peek()
	if ok {
		c.pos++
	}
	return t, ok
}

// is reports whether the next token has kind k, without consuming it.
func (c *cursor) is(k lexer.Kind) bool {
	t, ok := c.peek()
	return ok && t.Kind == k
}

// isText reports whether the next token is a SEQUENCE with exactly the
// given text, used for the contextual words this grammar recognises
// positionally (e.g. "system", "valueset", "codes", "and", "or").
func (c *cursor) isText(word string) bool {
	t, ok := c.peek()
	return ok && t.Kind == lexer.SEQUENCE && t.Text == word
}
