package ast

// ValueSetComponentKind discriminates the ValueSetComponent sum type.
type ValueSetComponentKind string

// Component kinds.
const (
	ComponentConcept ValueSetComponentKind = "concept"
	ComponentFilter  ValueSetComponentKind = "filter"
)

// ValueSetComponent is the closed sum type over a value set's content
// fragments: an enumerated concept list, or a filter expression.
type ValueSetComponent interface {
	Kind() ValueSetComponentKind
	// Included reports whether this component includes (true) or
	// excludes (false) its matched concepts.
	Included() bool
}

// ConceptComponent is an explicit, enumerated list of codes.
type ConceptComponent struct {
	Inclusion bool
	From      VsFrom
	Concepts  []CodeValue
}

// Kind implements ValueSetComponent.
func (ConceptComponent) Kind() ValueSetComponentKind { return ComponentConcept }

// Included implements ValueSetComponent.
func (c ConceptComponent) Included() bool { return c.Inclusion }

// VsOperator is the closed enum of value-set filter operators.
type VsOperator string

// Filter operators.
const (
	OpEquals       VsOperator = "="
	OpIsA          VsOperator = "is-a"
	OpDescendentOf VsOperator = "descendent-of"
	OpIsNotA       VsOperator = "is-not-a"
	OpRegex        VsOperator = "regex"
	OpIn           VsOperator = "in"
	OpNotIn        VsOperator = "not-in"
	OpGeneralizes  VsOperator = "generalizes"
	OpExists       VsOperator = "exists"
)

// VsFilter is one `property operator [value]` clause of a
// FilterComponent. Value holds a string, CodeValue, *regexp.Regexp, or
// bool depending on Operator; an `exists` clause with no written value
// carries true.
type VsFilter struct {
	Property string
	Operator VsOperator
	Value    any
}

// FilterComponent is a set of discriminator filters against a code
// system, narrowing it to the concepts that match every filter.
type FilterComponent struct {
	Inclusion bool
	From      VsFrom
	Filters   []VsFilter
}

// Kind implements ValueSetComponent.
func (FilterComponent) Kind() ValueSetComponentKind { return ComponentFilter }

// Included implements ValueSetComponent.
func (c FilterComponent) Included() bool { return c.Inclusion }
