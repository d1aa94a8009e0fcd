package ast

// DocumentIR is the typed output of importing one RawInput: a mapping
// from entity kind to an ordered-by-insertion map of name to entity,
// plus the file it was produced from.
type DocumentIR struct {
	File       string
	Aliases    *OrderedMap[string, *Alias]
	Profiles   *OrderedMap[string, *StructureDef]
	Extensions *OrderedMap[string, *StructureDef]
	Instances  *OrderedMap[string, *Instance]
	ValueSets  *OrderedMap[string, *ValueSet]
}

// NewDocumentIR creates an empty DocumentIR for the given source file.
func NewDocumentIR(file string) *DocumentIR {
	return &DocumentIR{
		File:       file,
		Aliases:    NewOrderedMap[string, *Alias](),
		Profiles:   NewOrderedMap[string, *StructureDef](),
		Extensions: NewOrderedMap[string, *StructureDef](),
		Instances:  NewOrderedMap[string, *Instance](),
		ValueSets:  NewOrderedMap[string, *ValueSet](),
	}
}
