package visitor

import (
	"strings"

	"github.com/gofhir/fshimport/ast"
	"github.com/gofhir/fshimport/diagnostic"
	"github.com/gofhir/fshimport/lexer"
	"github.com/gofhir/fshimport/parser"
	"github.com/gofhir/fshimport/resolver"
	"github.com/gofhir/fshimport/symtab"
)

// Visitor builds one document's typed IR from its parsed tree.
// It holds no per-document state: a Visitor is reused, read-only,
// across every document in a batch via its Resolver and Sink.
type Visitor struct {
	Resolver *resolver.Resolver
	Sink     diagnostic.Sink
}

// New creates a Visitor over a resolver and diagnostics sink.
func New(res *resolver.Resolver, sink diagnostic.Sink) *Visitor {
	if sink == nil {
		sink = diagnostic.NopSink{}
	}
	return &Visitor{Resolver: res, Sink: sink}
}

// Visit walks tree (the output of parser.Parse for one RawInput) and
// produces its DocumentIR.
func (v *Visitor) Visit(file string, tree *parser.Node) *ast.DocumentIR {
	doc := ast.NewDocumentIR(file)
	for _, entity := range tree.Children {
		switch entity.NodeKind {
		case parser.NodeAlias:
			v.visitAlias(doc, entity)
		case parser.NodeProfile:
			v.visitStructureDef(doc, file, entity, ast.KindProfile)
		case parser.NodeExtension:
			v.visitStructureDef(doc, file, entity, ast.KindExtension)
		case parser.NodeInstance:
			v.visitInstance(doc, file, entity)
		case parser.NodeValueSet:
			v.visitValueSet(doc, file, entity)
		}
	}
	return doc
}

func (v *Visitor) visitAlias(doc *ast.DocumentIR, entity *parser.Node) {
	toks := stripHeaderTokens(entity.Tokens)
	if len(toks) < 3 || toks[0].Kind != lexer.SEQUENCE || toks[1].Kind != lexer.EQUALS {
		return
	}
	doc.Aliases.Set(toks[0].Text, &ast.Alias{Name: toks[0].Text, URL: toks[2].Text})
}

// metadataLoop implements the duplicate-key discipline shared by
// Profile/Extension, Instance, and ValueSet: walk metadata children in
// order, call set once per first-seen key, and emit a diagnostic (then
// discard) on every later occurrence.
func metadataLoop(file string, children []*parser.Node, sink diagnostic.Sink, set func(key string, toks []lexer.Token, loc ast.TextLocation)) {
	seen := make(map[string]string)
	for _, child := range children {
		if child.NodeKind != parser.NodeMetadata {
			continue
		}
		key, valueToks := splitMetadataLine(child.Tokens)
		if key == "" {
			continue
		}
		raw := rawText(valueToks)
		if prior, ok := seen[key]; ok {
			diagnostic.NewError().
				Msg("metadata field %q already declared with value %q", key, prior).
				In(file).At(child.Loc).Emit(sink)
			continue
		}
		seen[key] = raw
		set(key, valueToks, child.Loc)
	}
}

func splitMetadataLine(toks []lexer.Token) (string, []lexer.Token) {
	if len(toks) < 2 || toks[0].Kind != lexer.SEQUENCE || toks[1].Kind != lexer.COLON {
		return "", nil
	}
	return toks[0].Text, toks[2:]
}

func rawText(toks []lexer.Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// textValue extracts a metadata value's display text: unescaped if a
// single STRING/MULTILINE_STRING token, otherwise the first token's
// raw text (Id/Parent/InstanceOf are bare SEQUENCE/URL tokens).
func textValue(toks []lexer.Token) string {
	if len(toks) == 0 {
		return ""
	}
	switch toks[0].Kind {
	case lexer.STRING:
		return unescapeString(toks[0].Text)
	case lexer.MULTILINE_STRING:
		return dedentMultiline(toks[0].Text)
	default:
		return toks[0].Text
	}
}

func (v *Visitor) visitStructureDef(doc *ast.DocumentIR, file string, entity *parser.Node, kind ast.StructureDefKind) {
	toks := stripHeaderTokens(entity.Tokens)
	if len(toks) == 0 || toks[0].Kind != lexer.SEQUENCE {
		return
	}
	name := toks[0].Text

	// Absent a Parent: line, extensions derive from "Extension" and
	// profiles from "Resource". The default is a policy string, not a
	// reference written in source, so it is never resolved.
	defaultParent := "Resource"
	if kind == ast.KindExtension {
		defaultParent = "Extension"
	}

	sd := &ast.StructureDef{
		EntityKind: kind,
		Name:       name,
		ID:         name,
		Parent:     defaultParent,
		SourceInfo: ast.SourceInfo{File: file, Location: entity.Loc},
	}

	metadataLoop(file, entity.Children, v.Sink, func(key string, valueToks []lexer.Token, loc ast.TextLocation) {
		switch key {
		case "Id":
			sd.ID = textValue(valueToks)
		case "Parent":
			sd.Parent = v.Resolver.Resolve(textValue(valueToks),
				symtab.KindAlias, symtab.KindProfile, symtab.KindExtension, symtab.KindResource, symtab.KindType)
		case "Title":
			sd.Title = textValue(valueToks)
		case "Description":
			sd.Description = textValue(valueToks)
		}
	})

	for _, child := range entity.Children {
		if child.NodeKind != parser.NodeRule {
			continue
		}
		sd.Rules = append(sd.Rules, v.parseRule(file, child)...)
	}

	target := doc.Profiles
	if kind == ast.KindExtension {
		target = doc.Extensions
	}
	target.Set(name, sd)
}

func (v *Visitor) visitInstance(doc *ast.DocumentIR, file string, entity *parser.Node) {
	toks := stripHeaderTokens(entity.Tokens)
	if len(toks) == 0 || toks[0].Kind != lexer.SEQUENCE {
		return
	}
	name := toks[0].Text

	inst := &ast.Instance{
		Name:       name,
		SourceInfo: ast.SourceInfo{File: file, Location: entity.Loc},
	}
	var instanceOfSet bool

	metadataLoop(file, entity.Children, v.Sink, func(key string, valueToks []lexer.Token, loc ast.TextLocation) {
		switch key {
		case "InstanceOf":
			inst.InstanceOf = v.Resolver.Resolve(textValue(valueToks),
				symtab.KindAlias, symtab.KindProfile, symtab.KindExtension, symtab.KindResource, symtab.KindType)
			instanceOfSet = true
		case "Title":
			inst.Title = textValue(valueToks)
		}
	})

	if !instanceOfSet {
		diagnostic.NewError().
			Msg("Instance %q is missing its required InstanceOf metadata field", name).
			In(file).At(entity.Loc).Emit(v.Sink)
		return
	}

	for _, child := range entity.Children {
		if child.NodeKind != parser.NodeRule {
			continue
		}
		for _, r := range v.parseRule(file, child) {
			if fv, ok := r.(ast.FixedValueRule); ok {
				inst.Rules = append(inst.Rules, fv)
			}
		}
	}

	doc.Instances.Set(name, inst)
}

func (v *Visitor) visitValueSet(doc *ast.DocumentIR, file string, entity *parser.Node) {
	toks := stripHeaderTokens(entity.Tokens)
	if len(toks) == 0 || toks[0].Kind != lexer.SEQUENCE {
		return
	}
	name := toks[0].Text

	vsDef := &ast.ValueSet{
		Name:       name,
		ID:         name,
		SourceInfo: ast.SourceInfo{File: file, Location: entity.Loc},
	}

	metadataLoop(file, entity.Children, v.Sink, func(key string, valueToks []lexer.Token, loc ast.TextLocation) {
		switch key {
		case "Id":
			vsDef.ID = textValue(valueToks)
		case "Title":
			vsDef.Title = textValue(valueToks)
		case "Description":
			vsDef.Description = textValue(valueToks)
		}
	})

	var components []ast.ValueSetComponent
	var ctx ast.VsFrom
	for _, child := range entity.Children {
		if child.NodeKind != parser.NodeRule {
			continue
		}
		comp := v.parseComponent(file, child, ctx)
		if comp == nil {
			continue
		}
		components = append(components, comp)
		switch cc := comp.(type) {
		case ast.ConceptComponent:
			ctx = cc.From
		case ast.FilterComponent:
			ctx = cc.From
		}
	}
	vsDef.Components = mergeConceptComponents(components)

	doc.ValueSets.Set(name, vsDef)
}

// stripHeaderTokens drops an entity header line's leading keyword and
// colon tokens, leaving the name (and whatever else follows it).
func stripHeaderTokens(toks []lexer.Token) []lexer.Token {
	if len(toks) >= 2 {
		return toks[2:]
	}
	return nil
}
