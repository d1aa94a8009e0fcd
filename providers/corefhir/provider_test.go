package corefhir

import "testing"

func TestProvider_AddAndFindResource(t *testing.T) {
	p := New()
	err := p.AddStructureDefinitionJSON([]byte(`{
		"resourceType": "StructureDefinition",
		"name": "Patient",
		"url": "http://hl7.org/fhir/StructureDefinition/Patient",
		"kind": "resource"
	}`))
	if err != nil {
		t.Fatalf("AddStructureDefinitionJSON: %v", err)
	}

	if url := p.FindResource("Patient"); url != "http://hl7.org/fhir/StructureDefinition/Patient" {
		t.Errorf("FindResource(Patient) = %q", url)
	}
	if url := p.Find("Patient"); url != "http://hl7.org/fhir/StructureDefinition/Patient" {
		t.Errorf("Find(Patient) = %q", url)
	}
}

func TestProvider_ComplexTypeIndexedAsType(t *testing.T) {
	p := New()
	if err := p.AddStructureDefinitionJSON([]byte(`{
		"resourceType": "StructureDefinition",
		"name": "Quantity",
		"url": "http://hl7.org/fhir/StructureDefinition/Quantity",
		"kind": "complex-type"
	}`)); err != nil {
		t.Fatalf("AddStructureDefinitionJSON: %v", err)
	}

	if url := p.FindType("Quantity"); url == "" {
		t.Error("expected Quantity indexed as a type")
	}
	if url := p.FindResource("Quantity"); url != "" {
		t.Errorf("FindResource(Quantity) = %q; want empty, complex types aren't resources", url)
	}
}

func TestProvider_ProfileIndexedByDefault(t *testing.T) {
	p := New()
	if err := p.AddStructureDefinitionJSON([]byte(`{
		"resourceType": "StructureDefinition",
		"name": "USCorePatient",
		"url": "http://hl7.org/fhir/us/core/StructureDefinition/us-core-patient",
		"kind": "constraint"
	}`)); err != nil {
		t.Fatalf("AddStructureDefinitionJSON: %v", err)
	}
	if url := p.FindProfile("USCorePatient"); url == "" {
		t.Error("expected a non-resource, non-primitive/complex kind indexed as a profile")
	}
}

func TestProvider_ValueSetByNameAndID(t *testing.T) {
	p := New()
	if err := p.AddValueSetJSON([]byte(`{
		"resourceType": "ValueSet",
		"name": "AdministrativeGender",
		"id": "administrative-gender",
		"url": "http://hl7.org/fhir/ValueSet/administrative-gender"
	}`)); err != nil {
		t.Fatalf("AddValueSetJSON: %v", err)
	}

	want := "http://hl7.org/fhir/ValueSet/administrative-gender"
	if url := p.FindValueSet("AdministrativeGender"); url != want {
		t.Errorf("FindValueSet(name) = %q; want %q", url, want)
	}
	if url := p.FindValueSet("administrative-gender"); url != want {
		t.Errorf("FindValueSet(id) = %q; want %q", url, want)
	}
}

func TestProvider_CodeSystem(t *testing.T) {
	p := New()
	if err := p.AddCodeSystemJSON([]byte(`{
		"resourceType": "CodeSystem",
		"name": "ObservationStatus",
		"url": "http://hl7.org/fhir/observation-status"
	}`)); err != nil {
		t.Fatalf("AddCodeSystemJSON: %v", err)
	}
	if url := p.FindCodeSystem("ObservationStatus"); url != "http://hl7.org/fhir/observation-status" {
		t.Errorf("FindCodeSystem = %q", url)
	}
}

func TestProvider_MissingNameOrURLIsSkipped(t *testing.T) {
	p := New()
	if err := p.AddStructureDefinitionJSON([]byte(`{"resourceType": "StructureDefinition", "kind": "resource"}`)); err != nil {
		t.Fatalf("AddStructureDefinitionJSON: %v", err)
	}
	if p.Find("") != "" {
		t.Error("expected no entry indexed when name/url are both absent")
	}
}

func TestProvider_UnknownSymbolReturnsEmpty(t *testing.T) {
	p := New()
	if url := p.Find("DoesNotExist"); url != "" {
		t.Errorf("Find(DoesNotExist) = %q; want empty", url)
	}
}
