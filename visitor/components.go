package visitor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gofhir/fshimport/ast"
	"github.com/gofhir/fshimport/diagnostic"
	"github.com/gofhir/fshimport/lexer"
	"github.com/gofhir/fshimport/parser"
	"github.com/gofhir/fshimport/symtab"
)

// parseComponent dispatches one ValueSet `*` line to ConceptComponent
// or FilterComponent construction. inherited is the from-clause of the
// preceding component, which bare code lines continue: a `codes from
// system X` line opens a source context that following `* #code` lines
// add concepts to (the merge pass then folds them into one component).
func (v *Visitor) parseComponent(file string, node *parser.Node, inherited ast.VsFrom) ast.ValueSetComponent {
	toks := node.Tokens
	if len(toks) < 1 || toks[0].Kind != lexer.STAR {
		return nil
	}
	c := newCursor(toks[1:])
	inclusion := true
	switch {
	case c.isText("include"):
		c.next()
	case c.is(lexer.KEYWORD_EXCLUDE):
		c.next()
		inclusion = false
	}

	if c.isText("codes") {
		c.next()
		return v.parseCodesComponent(file, node.Loc, inclusion, c)
	}
	return v.parseConceptComponent(file, node.Loc, inclusion, c, inherited)
}

// conceptToken is one written concept: its CODE token plus the
// optional quoted display that followed it.
type conceptToken struct {
	code    lexer.Token
	display string
}

// parseConceptComponent handles an explicit code (or comma-delimited
// code list) with an optional trailing from-clause. A comma-delimited
// list must have a system, either written in its from clause or
// inherited from the preceding component.
func (v *Visitor) parseConceptComponent(file string, loc ast.TextLocation, inclusion bool, c *cursor, inherited ast.VsFrom) ast.ValueSetComponent {
	var written []conceptToken
	for c.is(lexer.CODE) {
		t, _ := c.next()
		ct := conceptToken{code: t}
		if c.is(lexer.STRING) {
			d, _ := c.next()
			ct.display = unescapeString(d.Text)
		}
		written = append(written, ct)
		if c.is(lexer.COMMA) {
			c.next()
			continue
		}
		break
	}
	if len(written) == 0 {
		diagnostic.NewError().Msg("expected a code in value set component").In(file).At(loc).Emit(v.Sink)
		return nil
	}

	from, fromWritten := v.parseFromClause(c)

	if len(written) > 1 && from.System == "" {
		if inherited.System == "" {
			diagnostic.NewError().
				Msg("a comma-delimited concept list requires a system, as in 'from system SYSTEM'").
				In(file).At(loc).Emit(v.Sink)
			return nil
		}
		from = inherited
	}

	var concepts []ast.CodeValue
	for _, ct := range written {
		concepts = append(concepts, v.resolveConceptCode(file, loc, ct, &from, fromWritten, inherited)...)
	}
	if concepts == nil {
		return nil
	}
	return ast.ConceptComponent{Inclusion: inclusion, From: from, Concepts: concepts}
}

// resolveConceptCode implements the single-code system-adoption
// rules: a code's own system and a written from-clause's system cannot
// both be set; whichever is set is adopted onto both the code and (if
// previously unset) the component's from. A code carrying neither
// falls back to the inherited context; with no context either, it is
// an error.
func (v *Visitor) resolveConceptCode(file string, loc ast.TextLocation, ct conceptToken, from *ast.VsFrom, fromWritten bool, inherited ast.VsFrom) []ast.CodeValue {
	code := v.parseCodeToken(ct.code)
	code.Display = ct.display
	switch {
	case code.System != "" && fromWritten && from.System != "":
		diagnostic.NewError().Msg("concept %q specifies system multiple times", code.Code).In(file).At(loc).Emit(v.Sink)
		return nil
	case code.System != "":
		if from.System == "" {
			from.System = code.System
		}
	case from.System != "":
		code.System = from.System
	case inherited.System != "":
		code.System = inherited.System
		*from = inherited
	default:
		diagnostic.NewError().
			Msg("concept %q must include system as 'SYSTEM#CONCEPT' or '#CONCEPT from system SYSTEM'", code.Code).
			In(file).At(loc).Emit(v.Sink)
		return nil
	}
	return []ast.CodeValue{code}
}

// parseFromClause handles `from ("system" SEQUENCE)? ("valueset"
// SEQUENCE ("," SEQUENCE)*)?`, reporting whether a from clause was
// written at all.
func (v *Visitor) parseFromClause(c *cursor) (ast.VsFrom, bool) {
	var from ast.VsFrom
	if !c.isText("from") && !c.is(lexer.KEYWORD_FROM) {
		return from, false
	}
	c.next()

	if c.isText("system") {
		c.next()
		if t, ok := c.next(); ok {
			from.System = v.Resolver.Resolve(t.Text, symtab.KindAlias, symtab.KindCodeSystem)
		}
	}
	if c.isText("valueset") {
		c.next()
		for {
			t, ok := c.next()
			if !ok {
				break
			}
			from.ValueSets = append(from.ValueSets, v.Resolver.Resolve(t.Text, symtab.KindAlias, symtab.KindValueSet))
			if c.is(lexer.COMMA) {
				c.next()
				continue
			}
			break
		}
	}
	return from, true
}

// parseCodesComponent handles `codes from-clause filterClause*`. With
// filter clauses it builds a FilterComponent, which requires
// from.system; without any it is a ConceptComponent drawing every
// concept from the named system and/or value sets.
func (v *Visitor) parseCodesComponent(file string, loc ast.TextLocation, inclusion bool, c *cursor) ast.ValueSetComponent {
	from, _ := v.parseFromClause(c)

	var filters []ast.VsFilter
	attempted := 0
	for c.is(lexer.COMMA) {
		c.next()
		attempted++
		f, ok := v.parseFilterClause(file, loc, c)
		if ok {
			filters = append(filters, f)
		}
	}

	if attempted == 0 {
		if from.System == "" && len(from.ValueSets) == 0 {
			diagnostic.NewError().Msg("codes component requires a system or value set source").In(file).At(loc).Emit(v.Sink)
			return nil
		}
		return ast.ConceptComponent{Inclusion: inclusion, From: from}
	}

	if from.System == "" {
		diagnostic.NewError().Msg("filter component requires a system").In(file).At(loc).Emit(v.Sink)
		return nil
	}
	return ast.FilterComponent{Inclusion: inclusion, From: from, Filters: filters}
}

// parseFilterClause handles one `property operator [value]` clause.
func (v *Visitor) parseFilterClause(file string, loc ast.TextLocation, c *cursor) (ast.VsFilter, bool) {
	propTok, ok := c.next()
	if !ok || propTok.Kind != lexer.SEQUENCE {
		diagnostic.NewError().Msg("expected filter property").In(file).At(loc).Emit(v.Sink)
		return ast.VsFilter{}, false
	}

	op, ok := v.parseFilterOperator(c)
	if !ok {
		diagnostic.NewError().Msg("unrecognised value set filter operator").In(file).At(loc).Emit(v.Sink)
		return ast.VsFilter{}, false
	}

	if op == ast.OpExists {
		val, ok := v.parseFilterBoolValue(c)
		if !ok {
			diagnostic.NewError().
				Msg("filter operator %q requires a boolean value", op).
				In(file).At(loc).Emit(v.Sink)
			return ast.VsFilter{}, false
		}
		return ast.VsFilter{Property: propTok.Text, Operator: op, Value: val}, true
	}

	if t, ok := c.peek(); !ok || t.Kind == lexer.COMMA {
		diagnostic.NewError().Msg("filter operator %q requires a value", op).In(file).At(loc).Emit(v.Sink)
		return ast.VsFilter{}, false
	}
	value, ok := v.parseFilterValue(file, loc, op, c)
	if !ok {
		diagnostic.NewError().Msg("filter operator %q has a value of the wrong type", op).In(file).At(loc).Emit(v.Sink)
		return ast.VsFilter{}, false
	}
	return ast.VsFilter{Property: propTok.Text, Operator: op, Value: value}, true
}

func (v *Visitor) parseFilterOperator(c *cursor) (ast.VsOperator, bool) {
	t, ok := c.next()
	if !ok {
		return "", false
	}
	if t.Kind == lexer.EQUALS {
		return ast.OpEquals, true
	}
	text := strings.ToLower(t.Text)
	text = strings.ReplaceAll(text, "descendant", "descendent")
	switch ast.VsOperator(text) {
	case ast.OpIsA, ast.OpDescendentOf, ast.OpIsNotA, ast.OpRegex, ast.OpIn, ast.OpNotIn, ast.OpGeneralizes, ast.OpExists:
		return ast.VsOperator(text), true
	}
	return "", false
}

// parseFilterValue type-checks the filter's value against its
// operator.
func (v *Visitor) parseFilterValue(file string, loc ast.TextLocation, op ast.VsOperator, c *cursor) (any, bool) {
	switch op {
	case ast.OpEquals, ast.OpIn, ast.OpNotIn:
		t, ok := c.next()
		if !ok || t.Kind != lexer.STRING {
			return nil, false
		}
		return unescapeString(t.Text), true
	case ast.OpIsA, ast.OpDescendentOf, ast.OpIsNotA, ast.OpGeneralizes:
		t, ok := c.next()
		if !ok || t.Kind != lexer.CODE {
			return nil, false
		}
		return v.parseCodeToken(t), true
	case ast.OpRegex:
		t, ok := c.next()
		if !ok || t.Kind != lexer.REGEX {
			return nil, false
		}
		pattern := strings.TrimSuffix(strings.TrimPrefix(t.Text, "/"), "/")
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, false
		}
		return re, true
	}
	return nil, false
}

// parseFilterBoolValue consumes an `exists` clause's value. The value
// may be omitted entirely (defaults to true); a present value must be
// a boolean literal.
func (v *Visitor) parseFilterBoolValue(c *cursor) (bool, bool) {
	t, ok := c.peek()
	if !ok || t.Kind == lexer.COMMA {
		return true, true
	}
	if t.Kind != lexer.SEQUENCE || (t.Text != "true" && t.Text != "false") {
		return false, false
	}
	c.next()
	return t.Text == "true", true
}

// mergeConceptComponents folds together ConceptComponents sharing
// (inclusion, from.system, sorted(from.valueSets)), concatenating
// their concepts in source order.
func mergeConceptComponents(components []ast.ValueSetComponent) []ast.ValueSetComponent {
	var merged []ast.ValueSetComponent
	index := make(map[string]int)

	for _, comp := range components {
		cc, ok := comp.(ast.ConceptComponent)
		if !ok {
			merged = append(merged, comp)
			continue
		}
		key := conceptMergeKey(cc)
		if i, ok := index[key]; ok {
			existing := merged[i].(ast.ConceptComponent)
			existing.Concepts = append(existing.Concepts, cc.Concepts...)
			merged[i] = existing
			continue
		}
		index[key] = len(merged)
		merged = append(merged, cc)
	}
	return merged
}

func conceptMergeKey(cc ast.ConceptComponent) string {
	vs := append([]string(nil), cc.From.ValueSets...)
	sort.Strings(vs)
	return strconv.FormatBool(cc.Inclusion) + "\x00" + cc.From.System + "\x00" + strings.Join(vs, "\x00")
}
