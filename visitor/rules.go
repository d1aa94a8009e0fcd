package visitor

import (
	"strconv"
	"strings"

	"github.com/gofhir/fshimport/ast"
	"github.com/gofhir/fshimport/diagnostic"
	"github.com/gofhir/fshimport/lexer"
	"github.com/gofhir/fshimport/parser"
	"github.com/gofhir/fshimport/symtab"
)

// parseRule dispatches one `*`-prefixed line to its rule visitor,
// returning the rules it produces in order (most lines produce one;
// ContainsRule and flagged CardRule lines produce more). Returns nil
// for an unrecognised line: a warning is emitted and no rule is
// produced.
func (v *Visitor) parseRule(file string, node *parser.Node) []ast.Rule {
	toks := node.Tokens
	loc := node.Loc
	if len(toks) < 2 || toks[0].Kind != lexer.STAR {
		v.warnUnrecognisedRule(file, node)
		return nil
	}

	// `(PATH)? CARET_SEQUENCE = value`: path absent.
	if toks[1].Kind == lexer.CARET_SEQUENCE {
		if rules := v.parseCaretValueRule(file, "", loc, newCursor(toks[1:])); rules != nil {
			return rules
		}
		v.warnUnrecognisedRule(file, node)
		return nil
	}

	if toks[1].Kind != lexer.SEQUENCE {
		v.warnUnrecognisedRule(file, node)
		return nil
	}
	path := toks[1].Text
	c := newCursor(toks[2:])

	// `PATH ("," PATH)* FLAG+`: a comma-delimited path list can only
	// carry flags, one FlagRule per path in declared order.
	if c.is(lexer.COMMA) {
		if rules := v.parseFlagRuleList(path, loc, c); rules != nil {
			return rules
		}
		v.warnUnrecognisedRule(file, node)
		return nil
	}

	switch {
	case c.is(lexer.CARD):
		return v.parseCardRule(path, loc, c)
	case c.is(lexer.FLAG):
		return v.parseFlagRule(path, loc, c)
	case c.isText("from"), c.is(lexer.KEYWORD_FROM):
		return v.parseValueSetRule(file, path, loc, c)
	case c.is(lexer.EQUALS):
		return v.parseFixedValueRule(file, path, loc, c)
	case c.is(lexer.KEYWORD_ONLY):
		return v.parseOnlyRule(file, path, loc, c)
	case c.is(lexer.KEYWORD_CONTAINS):
		return v.parseContainsRule(file, path, loc, c)
	case c.is(lexer.CARET_SEQUENCE):
		// `PATH CARET_SEQUENCE = value`: path present.
		if rules := v.parseCaretValueRule(file, path, loc, c); rules != nil {
			return rules
		}
	}
	v.warnUnrecognisedRule(file, node)
	return nil
}

func (v *Visitor) warnUnrecognisedRule(file string, node *parser.Node) {
	diagnostic.NewWarning().Msg("unrecognised rule").In(file).At(node.Loc).Emit(v.Sink)
}

// parseCardRule handles `PATH CARD FLAG*`.
func (v *Visitor) parseCardRule(path string, loc ast.TextLocation, c *cursor) []ast.Rule {
	cardTok, _ := c.next()
	min, max := splitCard(cardTok.Text)
	rules := []ast.Rule{ast.CardRule{Base: ast.NewBase(loc), Path: path, Min: min, Max: max}}
	if flag := collectFlags(c); flag != nil {
		flag.Base = ast.NewBase(loc)
		flag.Path = path
		rules = append(rules, *flag)
	}
	return rules
}

func splitCard(text string) (int, string) {
	i := strings.Index(text, "..")
	if i < 0 {
		n, _ := strconv.Atoi(text)
		return n, ""
	}
	min, _ := strconv.Atoi(text[:i])
	return min, text[i+2:]
}

// collectFlags consumes every remaining FLAG token and folds them into
// one FlagRule, or returns nil if none were present.
func collectFlags(c *cursor) *ast.FlagRule {
	var rule *ast.FlagRule
	for c.is(lexer.FLAG) {
		t, _ := c.next()
		if rule == nil {
			rule = &ast.FlagRule{}
		}
		applyFlag(rule, t.Text)
	}
	return rule
}

func applyFlag(rule *ast.FlagRule, text string) {
	switch text {
	case "MS":
		rule.MustSupport = true
	case "SU":
		rule.Summary = true
	case "?!":
		rule.Modifier = true
	}
}

// parseFlagRule handles `PATH FLAG+` with no preceding CARD.
func (v *Visitor) parseFlagRule(path string, loc ast.TextLocation, c *cursor) []ast.Rule {
	flag := collectFlags(c)
	if flag == nil {
		return nil
	}
	flag.Base = ast.NewBase(loc)
	flag.Path = path
	return []ast.Rule{*flag}
}

// parseFlagRuleList handles `PATH ("," PATH)* FLAG+`, producing one
// FlagRule per path with the same flags. Returns nil if the line does
// not fit that shape.
func (v *Visitor) parseFlagRuleList(first string, loc ast.TextLocation, c *cursor) []ast.Rule {
	paths := []string{first}
	for c.is(lexer.COMMA) {
		c.next()
		t, ok := c.next()
		if !ok || t.Kind != lexer.SEQUENCE {
			return nil
		}
		paths = append(paths, t.Text)
	}
	flag := collectFlags(c)
	if flag == nil || !c.done() {
		return nil
	}
	rules := make([]ast.Rule, 0, len(paths))
	for _, p := range paths {
		rules = append(rules, ast.FlagRule{
			Base:        ast.NewBase(loc),
			Path:        p,
			MustSupport: flag.MustSupport,
			Summary:     flag.Summary,
			Modifier:    flag.Modifier,
		})
	}
	return rules
}

// parseValueSetRule handles `PATH from SEQUENCE (STRENGTH)?`.
func (v *Visitor) parseValueSetRule(file, path string, loc ast.TextLocation, c *cursor) []ast.Rule {
	c.next() // "from" keyword
	vsTok, ok := c.next()
	if !ok {
		return nil
	}
	vs := v.Resolver.Resolve(vsTok.Text, symtab.KindAlias, symtab.KindValueSet)

	strength := ast.StrengthRequired
	if t, ok := c.peek(); ok && t.Kind == lexer.SEQUENCE {
		if s, ok := parseStrength(t.Text); ok {
			strength = s
			c.next()
		}
	}
	return []ast.Rule{ast.ValueSetRule{Base: ast.NewBase(loc), Path: path, ValueSet: vs, Strength: strength}}
}

func parseStrength(text string) (ast.BindingStrength, bool) {
	switch text {
	case "required":
		return ast.StrengthRequired, true
	case "extensible":
		return ast.StrengthExtensible, true
	case "preferred":
		return ast.StrengthPreferred, true
	case "example":
		return ast.StrengthExample, true
	}
	return "", false
}

// parseFixedValueRule handles `PATH = value`.
func (v *Visitor) parseFixedValueRule(file, path string, loc ast.TextLocation, c *cursor) []ast.Rule {
	c.next() // "="
	val := v.parseValue(c)
	val = v.attachTrailingDisplay(c, val)
	if val == nil {
		diagnostic.NewError().Msg("could not parse value for path %q", path).In(file).At(loc).Emit(v.Sink)
		return nil
	}
	return []ast.Rule{ast.FixedValueRule{Base: ast.NewBase(loc), Path: path, Value: val}}
}

// attachTrailingDisplay attaches a following STRING token as Display on
// a CodeValue or ReferenceValue.
func (v *Visitor) attachTrailingDisplay(c *cursor, val ast.LiteralValue) ast.LiteralValue {
	t, ok := c.peek()
	if !ok || t.Kind != lexer.STRING {
		return val
	}
	switch tv := val.(type) {
	case ast.CodeValue:
		c.next()
		tv.Display = unescapeString(t.Text)
		return tv
	case ast.ReferenceValue:
		c.next()
		tv.Display = unescapeString(t.Text)
		return tv
	}
	return val
}

// parseOnlyRule handles `PATH only TARGET (or TARGET)*`.
func (v *Visitor) parseOnlyRule(file, path string, loc ast.TextLocation, c *cursor) []ast.Rule {
	c.next() // "only"
	var types []ast.OnlyType
	for {
		t, ok := c.peek()
		if !ok {
			break
		}
		switch t.Kind {
		case lexer.REFERENCE:
			c.next()
			types = append(types, v.parseReferenceTargets(t)...)
		case lexer.SEQUENCE:
			c.next()
			resolved := v.Resolver.Resolve(t.Text, symtab.KindAlias, symtab.KindProfile, symtab.KindExtension)
			types = append(types, ast.OnlyType{Type: resolved})
		default:
			c.next()
			continue
		}
		if t2, ok := c.peek(); ok && t2.Kind == lexer.SEQUENCE && t2.Text == "or" {
			c.next()
		}
	}
	return []ast.Rule{ast.OnlyRule{Base: ast.NewBase(loc), Path: path, Types: types}}
}

// parseReferenceTargets splits `Reference(A|B|...)` into one OnlyType
// per name, each resolved with allowed kinds Alias/Profile/Extension.
func (v *Visitor) parseReferenceTargets(t lexer.Token) []ast.OnlyType {
	inner := strings.TrimPrefix(t.Text, "Reference(")
	inner = strings.TrimSuffix(inner, ")")
	var out []ast.OnlyType
	for _, name := range strings.Split(inner, "|") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		resolved := v.Resolver.Resolve(name, symtab.KindAlias, symtab.KindProfile, symtab.KindExtension)
		out = append(out, ast.OnlyType{Type: resolved, IsReference: true})
	}
	return out
}

// parseContainsRule handles `PATH contains ITEM (and ITEM)*`, where
// each item is `SEQUENCE CARD FLAG*`. The ContainsRule is followed
// immediately by each item's synthesised CardRule and optional
// FlagRule, in declaration order.
func (v *Visitor) parseContainsRule(file, path string, loc ast.TextLocation, c *cursor) []ast.Rule {
	c.next() // "contains"
	var items []string
	rules := []ast.Rule{ast.ContainsRule{Base: ast.NewBase(loc), Path: path}}

	for {
		nameTok, ok := c.next()
		if !ok || nameTok.Kind != lexer.SEQUENCE {
			break
		}
		items = append(items, nameTok.Text)
		itemPath := path + "[" + nameTok.Text + "]"

		if c.is(lexer.CARD) {
			cardTok, _ := c.next()
			min, max := splitCard(cardTok.Text)
			rules = append(rules, ast.CardRule{Base: ast.NewBase(loc), Path: itemPath, Min: min, Max: max})
		}
		if flag := collectFlags(c); flag != nil {
			flag.Base = ast.NewBase(loc)
			flag.Path = itemPath
			rules = append(rules, *flag)
		}

		if t, ok := c.peek(); ok && t.Kind == lexer.SEQUENCE && t.Text == "and" {
			c.next()
			continue
		}
		break
	}

	rules[0] = ast.ContainsRule{Base: ast.NewBase(loc), Path: path, Items: items}
	return rules
}

func (v *Visitor) parseCaretValueRule(file, path string, loc ast.TextLocation, c *cursor) []ast.Rule {
	caretTok, ok := c.next()
	if !ok || caretTok.Kind != lexer.CARET_SEQUENCE {
		return nil
	}
	caretPath := strings.TrimPrefix(caretTok.Text, "^")
	if !c.is(lexer.EQUALS) {
		return nil
	}
	c.next()
	val := v.parseValue(c)
	val = v.attachTrailingDisplay(c, val)
	if val == nil {
		diagnostic.NewError().Msg("could not parse value for caret path %q", caretPath).In(file).At(loc).Emit(v.Sink)
		return nil
	}
	return []ast.Rule{ast.CaretValueRule{Base: ast.NewBase(loc), Path: path, CaretPath: caretPath, Value: val}}
}
