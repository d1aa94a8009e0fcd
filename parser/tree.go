// Package parser groups one document's token stream into an untyped
// concrete syntax tree: a document node holding entity nodes, each
// holding metadata and rule/component line nodes. The visitor package
// walks this tree to build the typed IR.
package parser

import (
	"github.com/gofhir/fshimport/ast"
	"github.com/gofhir/fshimport/lexer"
)

// NodeKind discriminates the untyped tree's node shapes.
type NodeKind string

// Node kinds, one per grammar production this parser recognises.
const (
	NodeDoc       NodeKind = "doc"
	NodeAlias     NodeKind = "alias"
	NodeProfile   NodeKind = "profile"
	NodeExtension NodeKind = "extension"
	NodeInstance  NodeKind = "instance"
	NodeValueSet  NodeKind = "valueSet"
	NodeMetadata  NodeKind = "metadata"
	NodeRule      NodeKind = "rule"
)

// Node is one production of the tree: either an entity (whose Children
// are its metadata/rule lines) or a leaf line (whose Tokens are the
// full token run for that logical line). Tokens always excludes EOF.
type Node struct {
	NodeKind NodeKind
	Tokens   []lexer.Token
	Children []*Node
	Loc      ast.TextLocation
}

func locOf(toks []lexer.Token) ast.TextLocation {
	if len(toks) == 0 {
		return ast.TextLocation{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 1}
	}
	first, last := toks[0], toks[len(toks)-1]
	return ast.TextLocation{
		StartLine:   first.Line,
		StartColumn: first.Column,
		EndLine:     last.EndLine,
		EndColumn:   last.EndColumn,
	}
}
