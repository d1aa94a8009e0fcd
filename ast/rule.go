package ast

// RuleKind discriminates the Rule sum type.
type RuleKind string

// Rule kinds.
const (
	RuleCard       RuleKind = "card"
	RuleFlag       RuleKind = "flag"
	RuleValueSet   RuleKind = "valueSet"
	RuleFixedValue RuleKind = "fixedValue"
	RuleOnly       RuleKind = "only"
	RuleContains   RuleKind = "contains"
	RuleCaretValue RuleKind = "caretValue"
)

// Rule is the closed sum type over statements that refine a path on a
// Profile, Extension, or Instance.
type Rule interface {
	// Kind identifies which concrete variant this rule is.
	Kind() RuleKind
	// Loc returns the rule's source location.
	Loc() TextLocation
}

// Base carries the source location shared by every rule variant.
type Base struct {
	Location TextLocation
}

// Loc implements Rule.
func (b Base) Loc() TextLocation { return b.Location }

// CardRule fixes the cardinality of an element. Max is a string
// because `*` is a valid upper bound.
type CardRule struct {
	Base
	Path string
	Min  int
	Max  string
}

// Kind implements Rule.
func (CardRule) Kind() RuleKind { return RuleCard }

// FlagRule attaches mustSupport/summary/modifier flags to a path.
type FlagRule struct {
	Base
	Path        string
	MustSupport bool
	Summary     bool
	Modifier    bool
}

// Kind implements Rule.
func (FlagRule) Kind() RuleKind { return RuleFlag }

// BindingStrength is the closed enum of value-set binding strengths.
type BindingStrength string

// Binding strengths, strongest to weakest.
const (
	StrengthRequired   BindingStrength = "required"
	StrengthExtensible BindingStrength = "extensible"
	StrengthPreferred  BindingStrength = "preferred"
	StrengthExample    BindingStrength = "example"
)

// ValueSetRule binds a path to a value set at a given strength.
type ValueSetRule struct {
	Base
	Path     string
	ValueSet string
	Strength BindingStrength
}

// Kind implements Rule.
func (ValueSetRule) Kind() RuleKind { return RuleValueSet }

// FixedValueRule assigns a fixed literal value to a path.
type FixedValueRule struct {
	Base
	Path  string
	Value LiteralValue
}

// Kind implements Rule.
func (FixedValueRule) Kind() RuleKind { return RuleFixedValue }

// OnlyType is one allowed type in an OnlyRule, or one member of a
// Reference(...) target list.
type OnlyType struct {
	Type        string
	IsReference bool
}

// OnlyRule restricts the allowed types of a path.
type OnlyRule struct {
	Base
	Path  string
	Types []OnlyType
}

// Kind implements Rule.
func (OnlyRule) Kind() RuleKind { return RuleOnly }

// ContainsRule declares named items within a path (e.g. slices,
// extension sub-items). It is always followed in the owning entity's
// rule list by the items' synthesised CardRules and optional
// FlagRules, in declaration order.
type ContainsRule struct {
	Base
	Path  string
	Items []string
}

// Kind implements Rule.
func (ContainsRule) Kind() RuleKind { return RuleContains }

// CaretValueRule assigns a value to a caret (metadata) path, optionally
// scoped to an element Path (empty string means the artifact itself).
type CaretValueRule struct {
	Base
	Path      string
	CaretPath string
	Value     LiteralValue
}

// Kind implements Rule.
func (CaretValueRule) Kind() RuleKind { return RuleCaretValue }

// NewBase is a helper for visitor code constructing rule values with
// an explicit location.
func NewBase(loc TextLocation) Base {
	return Base{Location: loc}
}
