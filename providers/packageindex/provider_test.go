package packageindex

import (
	"os"
	"path/filepath"
	"testing"
)

func writeJSON(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

func TestLoad_IndexesResourceProfileExtensionValueSetCodeSystem(t *testing.T) {
	dir := t.TempDir()

	writeJSON(t, dir, "StructureDefinition-Patient.json", `{
		"resourceType": "StructureDefinition", "name": "Patient", "id": "Patient",
		"url": "http://hl7.org/fhir/StructureDefinition/Patient", "kind": "resource", "type": "Patient"
	}`)
	writeJSON(t, dir, "StructureDefinition-us-core-patient.json", `{
		"resourceType": "StructureDefinition", "name": "USCorePatientProfile", "id": "us-core-patient",
		"url": "http://hl7.org/fhir/us/core/StructureDefinition/us-core-patient", "kind": "resource", "type": "Patient"
	}`)
	writeJSON(t, dir, "StructureDefinition-us-core-race.json", `{
		"resourceType": "StructureDefinition", "name": "USCoreRaceExtension", "id": "us-core-race",
		"url": "http://hl7.org/fhir/us/core/StructureDefinition/us-core-race", "kind": "resource", "type": "Extension"
	}`)
	writeJSON(t, dir, "ValueSet-gender.json", `{
		"resourceType": "ValueSet", "name": "AdministrativeGender", "id": "administrative-gender",
		"url": "http://hl7.org/fhir/ValueSet/administrative-gender"
	}`)
	writeJSON(t, dir, "CodeSystem-status.json", `{
		"resourceType": "CodeSystem", "name": "ObservationStatus", "id": "observation-status",
		"url": "http://hl7.org/fhir/observation-status"
	}`)
	writeJSON(t, dir, "package.json", `{"name": "test.package"}`)

	p := New()
	if err := p.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if url := p.FindResource("Patient"); url != "http://hl7.org/fhir/StructureDefinition/Patient" {
		t.Errorf("FindResource(Patient) = %q", url)
	}
	if url := p.FindProfile("us-core-patient"); url == "" {
		t.Error("expected the us-core-patient profile indexed by id")
	}
	if url := p.FindExtension("USCoreRaceExtension"); url != "http://hl7.org/fhir/us/core/StructureDefinition/us-core-race" {
		t.Errorf("FindExtension(USCoreRaceExtension) = %q", url)
	}
	if url := p.FindValueSet("administrative-gender"); url == "" {
		t.Error("expected the value set indexed by id")
	}
	if url := p.FindCodeSystem("ObservationStatus"); url == "" {
		t.Error("expected the code system indexed by name")
	}
}

func TestLoad_SkipsPackageManifestFiles(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "package.json", `{"name": "should-be-skipped"}`)
	writeJSON(t, dir, ".index.json", `{"files": []}`)

	p := New()
	if err := p.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Find("should-be-skipped") != "" {
		t.Error("package.json must not be indexed as a resource")
	}
}

func TestLoad_UsesPackageSubdirectoryWhenPresent(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "package")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	writeJSON(t, sub, "StructureDefinition-Observation.json", `{
		"resourceType": "StructureDefinition", "name": "Observation", "id": "Observation",
		"url": "http://hl7.org/fhir/StructureDefinition/Observation", "kind": "resource", "type": "Observation"
	}`)

	p := New()
	if err := p.Load(root); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if url := p.FindResource("Observation"); url != "http://hl7.org/fhir/StructureDefinition/Observation" {
		t.Errorf("FindResource(Observation) = %q", url)
	}
}

func TestLoad_MalformedFileIsSkippedNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "broken.json", `not json at all`)
	writeJSON(t, dir, "StructureDefinition-Patient.json", `{
		"resourceType": "StructureDefinition", "name": "Patient", "id": "Patient",
		"url": "http://hl7.org/fhir/StructureDefinition/Patient", "kind": "resource", "type": "Patient"
	}`)

	p := New()
	if err := p.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if url := p.FindResource("Patient"); url == "" {
		t.Error("expected Patient indexed despite a sibling malformed file")
	}
}

func TestLoad_NonexistentDirectoryReturnsError(t *testing.T) {
	p := New()
	if err := p.Load(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Error("expected an error loading a nonexistent directory")
	}
}
