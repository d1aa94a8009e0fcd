package parser

import (
	"github.com/gofhir/fshimport/lexer"
)

// Parser groups one document's token stream into a Node tree. It never
// panics: malformed input is reported to its ErrorListener and parsing
// continues on a best-effort basis.
type Parser struct {
	toks []lexer.Token
	pos  int
	errs *ErrorListener
}

// Parse groups toks (which must end with an EOF token, as lexer.Tokens
// produces) into a document tree.
func Parse(toks []lexer.Token, errs *ErrorListener) *Node {
	p := &Parser{toks: toks, errs: errs}
	return p.parseDoc()
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) atEOF() bool { return p.cur().Kind == lexer.EOF }

// isLineStart reports whether the token at i begins a new logical line:
// an entity keyword, a rule/component marker (`*`), or a metadata key
// (`SEQUENCE ":"`, with the colon immediately followed by whitespace —
// a scheme-qualified SEQUENCE like a URL never reaches here since the
// lexer already folded `scheme:rest` into one token).
func (p *Parser) isLineStart(i int) bool {
	if i >= len(p.toks) {
		return false
	}
	switch p.toks[i].Kind {
	case lexer.KEYWORD_ALIAS, lexer.KEYWORD_PROFILE, lexer.KEYWORD_EXTENSION,
		lexer.KEYWORD_INSTANCE, lexer.KEYWORD_VALUESET, lexer.STAR:
		return true
	case lexer.SEQUENCE:
		return i+1 < len(p.toks) && p.toks[i+1].Kind == lexer.COLON
	}
	return false
}

// nextLine consumes and returns the token run starting at the current
// position, up to (but excluding) the next line-start token or EOF.
func (p *Parser) nextLine() []lexer.Token {
	start := p.pos
	p.pos++ // the line's own start token always belongs to it
	for !p.atEOF() && !p.isLineStart(p.pos) {
		p.pos++
	}
	return p.toks[start:p.pos]
}

func (p *Parser) parseDoc() *Node {
	doc := &Node{NodeKind: NodeDoc}
	var cur *Node

	for !p.atEOF() {
		if !p.isLineStart(p.pos) {
			bad := p.cur()
			p.errs.SyntaxError(bad, "unexpected token "+bad.Kind.String()+" at start of line")
			p.pos++
			continue
		}

		lineStart := p.cur()
		switch lineStart.Kind {
		case lexer.KEYWORD_ALIAS:
			cur = nil
			line := p.nextLine()
			doc.Children = append(doc.Children, &Node{NodeKind: NodeAlias, Tokens: line, Loc: locOf(line)})
		case lexer.KEYWORD_PROFILE:
			line := p.nextLine()
			cur = &Node{NodeKind: NodeProfile, Tokens: line, Loc: locOf(line)}
			doc.Children = append(doc.Children, cur)
		case lexer.KEYWORD_EXTENSION:
			line := p.nextLine()
			cur = &Node{NodeKind: NodeExtension, Tokens: line, Loc: locOf(line)}
			doc.Children = append(doc.Children, cur)
		case lexer.KEYWORD_INSTANCE:
			line := p.nextLine()
			cur = &Node{NodeKind: NodeInstance, Tokens: line, Loc: locOf(line)}
			doc.Children = append(doc.Children, cur)
		case lexer.KEYWORD_VALUESET:
			line := p.nextLine()
			cur = &Node{NodeKind: NodeValueSet, Tokens: line, Loc: locOf(line)}
			doc.Children = append(doc.Children, cur)
		case lexer.STAR:
			line := p.nextLine()
			if cur == nil {
				p.errs.SyntaxErrorAt(locOf(line), "rule outside any entity")
				continue
			}
			cur.Children = append(cur.Children, &Node{NodeKind: NodeRule, Tokens: line, Loc: locOf(line)})
		case lexer.SEQUENCE:
			line := p.nextLine()
			if cur == nil {
				p.errs.SyntaxErrorAt(locOf(line), "metadata outside any entity")
				continue
			}
			cur.Children = append(cur.Children, &Node{NodeKind: NodeMetadata, Tokens: line, Loc: locOf(line)})
		default:
			p.pos++
		}
	}

	eof := p.cur()
	doc.Loc = locOf([]lexer.Token{eof})
	return doc
}
