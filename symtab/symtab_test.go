package symtab

import (
	"testing"

	"github.com/gofhir/fshimport/diagnostic"
	"github.com/gofhir/fshimport/lexer"
	"github.com/gofhir/fshimport/parser"
)

func tree(t *testing.T, file, src string) *DocTree {
	t.Helper()
	sink := diagnostic.NewCollectingSink()
	toks := lexer.New(file, src, sink).Tokens()
	errs := parser.NewErrorListener(file, sink)
	if len(sink.Errors()) != 0 {
		t.Fatalf("unexpected lex errors: %v", sink.Errors())
	}
	return &DocTree{File: file, Tree: parser.Parse(toks, errs)}
}

func TestPreprocess_AliasRegistration(t *testing.T) {
	dt := tree(t, "a.fsh", "Alias: LNC = http://loinc.org")
	sink := diagnostic.NewCollectingSink()
	table := Preprocess([]*DocTree{dt}, "http://example.org/fhir", sink)

	url, ok := table.Lookup(KindAlias, "LNC")
	if !ok || url != "http://loinc.org" {
		t.Fatalf("Lookup(KindAlias, LNC) = %q, %v; want http://loinc.org, true", url, ok)
	}
	if _, ok := table.LookupGlobal("LNC"); !ok {
		t.Error("expected LNC in the global table too")
	}
}

func TestPreprocess_ProfileSynthesizesURL(t *testing.T) {
	dt := tree(t, "a.fsh", "Profile: MyPatient\nParent: Patient")
	sink := diagnostic.NewCollectingSink()
	table := Preprocess([]*DocTree{dt}, "http://example.org/fhir", sink)

	url, ok := table.Lookup(KindProfile, "MyPatient")
	if !ok {
		t.Fatal("expected MyPatient registered as a profile")
	}
	want := "http://example.org/fhir/StructureDefinition/MyPatient"
	if url != want {
		t.Errorf("url = %q; want %q", url, want)
	}
}

func TestPreprocess_ProfileWithExplicitId(t *testing.T) {
	dt := tree(t, "a.fsh", "Profile: MyPatient\nId: my-patient")
	sink := diagnostic.NewCollectingSink()
	table := Preprocess([]*DocTree{dt}, "http://example.org/fhir", sink)

	byName, ok := table.Lookup(KindProfile, "MyPatient")
	if !ok {
		t.Fatal("expected lookup by name to succeed")
	}
	byID, ok := table.Lookup(KindProfile, "my-patient")
	if !ok {
		t.Fatal("expected lookup by id to succeed")
	}
	if byName != byID {
		t.Errorf("name and id registrations diverge: %q vs %q", byName, byID)
	}
	if byName != "http://example.org/fhir/StructureDefinition/my-patient" {
		t.Errorf("url = %q", byName)
	}
}

func TestPreprocess_InstanceNeverRegistered(t *testing.T) {
	dt := tree(t, "a.fsh", "Instance: MyInst\nInstanceOf: Patient")
	sink := diagnostic.NewCollectingSink()
	table := Preprocess([]*DocTree{dt}, "http://example.org/fhir", sink)

	if _, ok := table.LookupGlobal("MyInst"); ok {
		t.Error("instances must never be registered in the symbol table")
	}
}

func TestPreprocess_ConflictingURLEmitsDiagnostic(t *testing.T) {
	first := tree(t, "a.fsh", "Profile: Dup\nId: one")
	second := tree(t, "b.fsh", "Profile: Dup\nId: two")
	sink := diagnostic.NewCollectingSink()
	table := Preprocess([]*DocTree{first, second}, "http://example.org/fhir", sink)

	if len(sink.Errors()) == 0 {
		t.Fatal("expected a conflict diagnostic for two profiles named Dup with different ids")
	}
	// First registration wins.
	url, _ := table.Lookup(KindProfile, "Dup")
	if url != "http://example.org/fhir/StructureDefinition/one" {
		t.Errorf("url = %q; want the first document's registration to win", url)
	}
}

func TestPreprocess_CrossDocumentOrderIndependence(t *testing.T) {
	referencing := tree(t, "a.fsh", "Profile: Child\nParent: Base")
	defining := tree(t, "b.fsh", "Profile: Base")
	sink := diagnostic.NewCollectingSink()
	table := Preprocess([]*DocTree{referencing, defining}, "http://example.org/fhir", sink)

	if _, ok := table.Lookup(KindProfile, "Base"); !ok {
		t.Error("expected Base to be registered regardless of declaration order across documents")
	}
}
