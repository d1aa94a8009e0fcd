// Package symtab implements the preprocessor (pass 1): it walks every
// parsed document once to build a shared name/id → canonical URL table
// before any document is visited, so cross-document references resolve
// regardless of declaration order.
package symtab

import (
	"fmt"

	"github.com/gofhir/fshimport/ast"
	"github.com/gofhir/fshimport/diagnostic"
	"github.com/gofhir/fshimport/lexer"
	"github.com/gofhir/fshimport/parser"
)

// Kind partitions the symbol table the way the preprocessor registers
// entities: one table per kind, plus a global cross-kind table.
type Kind string

// Symbol kinds.
const (
	KindAlias      Kind = "Alias"
	KindProfile    Kind = "Profile"
	KindExtension  Kind = "Extension"
	KindValueSet   Kind = "ValueSet"
	KindCodeSystem Kind = "CodeSystem"
	KindInstance   Kind = "Instance"
	KindResource   Kind = "Resource"
	KindType       Kind = "Type"
)

// SymbolTable is the preprocessor's output, never mutated after
// Preprocess returns; the visitor phase reads it concurrently.
type SymbolTable struct {
	perKind map[Kind]map[string]string
	global  map[string]string
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{
		perKind: make(map[Kind]map[string]string),
		global:  make(map[string]string),
	}
}

// Lookup returns the URL registered for (kind, name), if any.
func (t *SymbolTable) Lookup(kind Kind, name string) (string, bool) {
	m, ok := t.perKind[kind]
	if !ok {
		return "", false
	}
	url, ok := m[name]
	return url, ok
}

// LookupGlobal returns the URL registered for name in the unconstrained
// cross-kind table, if any.
func (t *SymbolTable) LookupGlobal(name string) (string, bool) {
	url, ok := t.global[name]
	return url, ok
}

func (t *SymbolTable) register(kind Kind, name, url string, file string, loc ast.TextLocation, sink diagnostic.Sink) {
	if t.perKind[kind] == nil {
		t.perKind[kind] = make(map[string]string)
	}
	if existing, ok := t.perKind[kind][name]; ok {
		if existing != url {
			diagnostic.NewError().
				Msg("symbol %q already registered as kind %s with URL %q (conflicting URL %q)", name, kind, existing, url).
				In(file).At(loc).Emit(sink)
		}
		return // first registration wins
	}
	t.perKind[kind][name] = url

	if existing, ok := t.global[name]; ok {
		if existing != url {
			diagnostic.NewError().
				Msg("symbol %q already registered globally with URL %q (conflicting URL %q)", name, existing, url).
				In(file).At(loc).Emit(sink)
		}
		return
	}
	t.global[name] = url
}

// Preprocess walks every document's parse tree and builds the shared
// table. canonical is the project's canonical URL prefix.
func Preprocess(trees []*DocTree, canonical string, sink diagnostic.Sink) *SymbolTable {
	table := newSymbolTable()
	for _, dt := range trees {
		for _, entity := range dt.Tree.Children {
			registerEntity(table, entity, dt.File, canonical, sink)
		}
	}
	return table
}

// DocTree pairs a parsed tree with the file it came from, the unit the
// preprocessor and visitor both iterate over.
type DocTree struct {
	File string
	Tree *parser.Node
}

func registerEntity(table *SymbolTable, entity *parser.Node, file, canonical string, sink diagnostic.Sink) {
	switch entity.NodeKind {
	case parser.NodeAlias:
		name, url, ok := aliasNameURL(entity)
		if ok {
			table.register(KindAlias, name, url, file, entity.Loc, sink)
		}
	case parser.NodeProfile:
		registerStructureDef(table, entity, KindProfile, file, canonical, "StructureDefinition", sink)
	case parser.NodeExtension:
		registerStructureDef(table, entity, KindExtension, file, canonical, "StructureDefinition", sink)
	case parser.NodeValueSet:
		registerStructureDef(table, entity, KindValueSet, file, canonical, "ValueSet", sink)
	case parser.NodeInstance:
		// Instances are not cross-referenceable definitional artifacts;
		// they are never registered or resolved, locally or externally.
	}
}

// aliasNameURL extracts the alias's two SEQUENCE tokens: `Alias : NAME
// = URL`.
func aliasNameURL(entity *parser.Node) (string, string, bool) {
	toks := stripKeywordColon(entity.Tokens)
	if len(toks) < 3 {
		return "", "", false
	}
	if toks[0].Kind != lexer.SEQUENCE || toks[1].Kind != lexer.EQUALS || toks[2].Kind != lexer.SEQUENCE {
		return "", "", false
	}
	return toks[0].Text, toks[2].Text, true
}

// registerStructureDef finds the entity's name and, if an `Id:` metadata
// line overrides it (the first one, when repeated), its id, synthesising `{canonical}/
// {segment}/{id ?? name}` and registering under name and (if distinct)
// id.
func registerStructureDef(table *SymbolTable, entity *parser.Node, kind Kind, file, canonical, segment string, sink diagnostic.Sink) {
	toks := stripKeywordColon(entity.Tokens)
	if len(toks) == 0 || toks[0].Kind != lexer.SEQUENCE {
		return
	}
	name := toks[0].Text
	id := name
	for _, child := range entity.Children {
		if child.NodeKind != parser.NodeMetadata {
			continue
		}
		key, valueToks := metadataKeyValue(child.Tokens)
		if key == "Id" && len(valueToks) > 0 {
			id = valueToks[0].Text
			break
		}
	}

	url := fmt.Sprintf("%s/%s/%s", canonical, segment, id)
	table.register(kind, name, url, file, entity.Loc, sink)
	if id != name {
		table.register(kind, id, url, file, entity.Loc, sink)
	}
}

// stripKeywordColon drops the leading entity-keyword and colon tokens
// common to every entity header line.
func stripKeywordColon(toks []lexer.Token) []lexer.Token {
	if len(toks) >= 2 {
		return toks[2:]
	}
	return nil
}

// metadataKeyValue splits a metadata line's tokens into its key name
// and the remaining value tokens.
func metadataKeyValue(toks []lexer.Token) (string, []lexer.Token) {
	if len(toks) < 2 {
		return "", nil
	}
	return toks[0].Text, toks[2:]
}
