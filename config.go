// Package fshimport is the compiler front-end for a line-oriented,
// declarative DSL authoring healthcare-interoperability artifacts
// (profiles, extensions, instances, value sets): it lexes and parses
// raw source into a concrete syntax tree, builds a cross-document
// symbol table, and walks each tree into a typed, location-annotated
// intermediate representation with every symbolic reference resolved
// to a canonical URL.
package fshimport

import "github.com/gofhir/fshimport/resolver"

// Config supplies the project-level settings the importer needs.
type Config struct {
	// Canonical is the URL prefix used when synthesising entity URLs,
	// e.g. "http://example.org/fhir".
	Canonical string
}

// RawInput is one unit of source to import: a file path (used only for
// diagnostics and the resulting DocumentIR's File field) and its
// content.
type RawInput struct {
	Path    string
	Content string
}

// DefinitionProvider is the external, read-only index of definitional
// artifacts consulted when a symbol is not declared locally. It is
// re-exported from resolver so callers never need to import that
// package directly.
type DefinitionProvider = resolver.DefinitionProvider
