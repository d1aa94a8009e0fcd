// Package resolver implements the strict, ordered symbol-resolution
// algorithm: local preprocessor table first, external definition
// provider second, symbol passthrough last.
package resolver

import "github.com/gofhir/fshimport/symtab"

// DefinitionProvider is the external, read-only index of definitional
// artifacts consulted when a symbol is not declared locally. Each
// lookup returns the empty string if nothing matches.
type DefinitionProvider interface {
	Find(symbol string) string
	FindResource(symbol string) string
	FindType(symbol string) string
	FindProfile(symbol string) string
	FindExtension(symbol string) string
	FindValueSet(symbol string) string
	FindCodeSystem(symbol string) string
}

// Resolver resolves a symbolic reference against a SymbolTable, falling
// back to a DefinitionProvider.
type Resolver struct {
	table *symtab.SymbolTable
	defs  DefinitionProvider
}

// New creates a Resolver over table (the preprocessor's output) and
// defs (may be nil, in which case external lookups always miss).
func New(table *symtab.SymbolTable, defs DefinitionProvider) *Resolver {
	return &Resolver{table: table, defs: defs}
}

// Resolve normalises symbol to a canonical URL. With no allowedKinds,
// the global local table is consulted, then the provider's generic
// Find, then passthrough. With allowedKinds, lookups run in the
// caller's order: local per-kind lookups first (all kinds), then
// external per-kind lookups (all kinds), then passthrough.
func (r *Resolver) Resolve(symbol string, allowedKinds ...symtab.Kind) string {
	if len(allowedKinds) == 0 {
		if url, ok := r.table.LookupGlobal(symbol); ok {
			return url
		}
		if r.defs != nil {
			if url := r.defs.Find(symbol); url != "" {
				return url
			}
		}
		return symbol
	}

	for _, kind := range allowedKinds {
		if url, ok := r.table.Lookup(kind, symbol); ok {
			return url
		}
	}

	if r.defs != nil {
		for _, kind := range allowedKinds {
			if url := externalLookup(r.defs, kind, symbol); url != "" {
				return url
			}
		}
	}

	return symbol
}

func externalLookup(defs DefinitionProvider, kind symtab.Kind, symbol string) string {
	switch kind {
	case symtab.KindResource:
		return defs.FindResource(symbol)
	case symtab.KindType:
		return defs.FindType(symbol)
	case symtab.KindProfile:
		return defs.FindProfile(symbol)
	case symtab.KindExtension:
		return defs.FindExtension(symbol)
	case symtab.KindValueSet:
		return defs.FindValueSet(symbol)
	case symtab.KindCodeSystem:
		return defs.FindCodeSystem(symbol)
	case symtab.KindInstance:
		// Instance kind is never resolved externally: external defs do
		// not carry end-user instance examples.
		return ""
	case symtab.KindAlias:
		return ""
	default:
		return ""
	}
}
