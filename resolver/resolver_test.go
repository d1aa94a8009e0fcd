package resolver

import (
	"testing"

	"github.com/gofhir/fshimport/diagnostic"
	"github.com/gofhir/fshimport/lexer"
	"github.com/gofhir/fshimport/parser"
	"github.com/gofhir/fshimport/symtab"
)

func buildTable(t *testing.T, src string) *symtab.SymbolTable {
	t.Helper()
	sink := diagnostic.NewCollectingSink()
	toks := lexer.New("t.fsh", src, sink).Tokens()
	errs := parser.NewErrorListener("t.fsh", sink)
	dt := &symtab.DocTree{File: "t.fsh", Tree: parser.Parse(toks, errs)}
	return symtab.Preprocess([]*symtab.DocTree{dt}, "http://example.org/fhir", sink)
}

// fakeProvider is a minimal DefinitionProvider stand-in for testing the
// resolver's external-lookup step in isolation from any real provider.
type fakeProvider struct {
	byKind map[symtab.Kind]string
	find   string
}

func (f fakeProvider) Find(symbol string) string           { return f.find }
func (f fakeProvider) FindResource(symbol string) string   { return f.byKind[symtab.KindResource] }
func (f fakeProvider) FindType(symbol string) string       { return f.byKind[symtab.KindType] }
func (f fakeProvider) FindProfile(symbol string) string    { return f.byKind[symtab.KindProfile] }
func (f fakeProvider) FindExtension(symbol string) string  { return f.byKind[symtab.KindExtension] }
func (f fakeProvider) FindValueSet(symbol string) string   { return f.byKind[symtab.KindValueSet] }
func (f fakeProvider) FindCodeSystem(symbol string) string { return f.byKind[symtab.KindCodeSystem] }

func TestResolve_LocalTableWins(t *testing.T) {
	table := buildTable(t, "Profile: MyPatient")
	r := New(table, fakeProvider{byKind: map[symtab.Kind]string{symtab.KindProfile: "http://external/Other"}})

	got := r.Resolve("MyPatient", symtab.KindProfile)
	want := "http://example.org/fhir/StructureDefinition/MyPatient"
	if got != want {
		t.Errorf("Resolve = %q; want %q", got, want)
	}
}

func TestResolve_FallsBackToExternalProvider(t *testing.T) {
	table := buildTable(t, "Profile: Local")
	r := New(table, fakeProvider{byKind: map[symtab.Kind]string{symtab.KindResource: "http://hl7.org/fhir/StructureDefinition/Patient"}})

	got := r.Resolve("Patient", symtab.KindResource)
	if got != "http://hl7.org/fhir/StructureDefinition/Patient" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestResolve_PassthroughWhenNothingMatches(t *testing.T) {
	table := buildTable(t, "Profile: Local")
	r := New(table, fakeProvider{})

	got := r.Resolve("string", symtab.KindType)
	if got != "string" {
		t.Errorf("Resolve = %q; want passthrough %q", got, "string")
	}
}

func TestResolve_NoProviderStillPassesThrough(t *testing.T) {
	table := buildTable(t, "Profile: Local")
	r := New(table, nil)

	got := r.Resolve("Patient", symtab.KindResource)
	if got != "Patient" {
		t.Errorf("Resolve = %q; want passthrough", got)
	}
}

func TestResolve_UnconstrainedUsesGlobalTableThenFindThenPassthrough(t *testing.T) {
	table := buildTable(t, "Alias: LNC = http://loinc.org")

	r := New(table, fakeProvider{find: "http://external/found"})
	if got := r.Resolve("LNC"); got != "http://loinc.org" {
		t.Errorf("Resolve(LNC) = %q; want local alias", got)
	}
	if got := r.Resolve("SomethingElse"); got != "http://external/found" {
		t.Errorf("Resolve(SomethingElse) = %q; want external Find result", got)
	}

	r2 := New(table, fakeProvider{})
	if got := r2.Resolve("Unregistered"); got != "Unregistered" {
		t.Errorf("Resolve(Unregistered) = %q; want passthrough", got)
	}
}

func TestResolve_InstanceKindNeverResolvedExternally(t *testing.T) {
	table := buildTable(t, "Instance: MyInst\nInstanceOf: Patient")
	r := New(table, fakeProvider{find: "http://external/should-not-be-used"})

	got := r.Resolve("MyInst", symtab.KindInstance)
	if got != "MyInst" {
		t.Errorf("Resolve = %q; want passthrough since instances are never externally resolved", got)
	}
}

func TestResolve_MultipleKindsTriesEachInOrder(t *testing.T) {
	table := buildTable(t, "Profile: Local")
	r := New(table, fakeProvider{byKind: map[symtab.Kind]string{symtab.KindType: "http://hl7.org/fhir/StructureDefinition/string"}})

	got := r.Resolve("string", symtab.KindResource, symtab.KindType)
	if got != "http://hl7.org/fhir/StructureDefinition/string" {
		t.Errorf("Resolve = %q", got)
	}
}
