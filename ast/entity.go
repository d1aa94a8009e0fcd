package ast

// StructureDefKind distinguishes a Profile from an Extension, since
// both share the StructureDef shape.
type StructureDefKind string

// StructureDef kinds.
const (
	KindProfile   StructureDefKind = "profile"
	KindExtension StructureDefKind = "extension"
)

// StructureDef is the shared shape of Profile and Extension entities.
type StructureDef struct {
	EntityKind  StructureDefKind
	Name        string
	ID          string
	Parent      string
	Title       string
	Description string
	Rules       []Rule
	SourceInfo  SourceInfo
}

// Instance is a fixed-value example of a profiled or base resource.
type Instance struct {
	Name       string
	InstanceOf string
	Title      string
	Rules      []FixedValueRule
	SourceInfo SourceInfo
}

// VsFrom qualifies a value-set component's source: an optional code
// system and/or a list of other value sets to draw from.
type VsFrom struct {
	System    string
	ValueSets []string
}

// ValueSet is a named, composed set of codes.
type ValueSet struct {
	Name        string
	ID          string
	Title       string
	Description string
	Components  []ValueSetComponent
	SourceInfo  SourceInfo
}

// Alias is a local shorthand mapping a name to a URL, stored verbatim
// (aliases are never themselves resolved).
type Alias struct {
	Name string
	URL  string
}
