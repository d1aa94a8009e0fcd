// Package corefhir implements a resolver.DefinitionProvider backed by
// an in-memory index of core FHIR R4 StructureDefinitions, CodeSystems,
// and ValueSets parsed with github.com/gofhir/fhir/r4. It is the
// reference provider for projects that
// import against the base FHIR R4 specification with no local package
// cache on disk (see providers/packageindex for that case).
package corefhir

import (
	"encoding/json"
	"fmt"

	"github.com/gofhir/fhir/r4"
)

// Provider answers symbol lookups against a fixed set of FHIR R4
// core artifacts loaded once at construction time.
type Provider struct {
	resources map[string]string
	types     map[string]string
	profiles  map[string]string
	valueSets map[string]string
	codeSys   map[string]string
}

// New creates an empty Provider; use AddStructureDefinitionJSON,
// AddValueSetJSON, and AddCodeSystemJSON to populate it.
func New() *Provider {
	return &Provider{
		resources: make(map[string]string),
		types:     make(map[string]string),
		profiles:  make(map[string]string),
		valueSets: make(map[string]string),
		codeSys:   make(map[string]string),
	}
}

// AddStructureDefinitionJSON decodes one StructureDefinition resource
// and indexes it by name under resource, type, or profile depending on
// its Kind alone; its derivation and type are not consulted.
func (p *Provider) AddStructureDefinitionJSON(data []byte) error {
	var sd r4.StructureDefinition
	if err := json.Unmarshal(data, &sd); err != nil {
		return fmt.Errorf("corefhir: decode StructureDefinition: %w", err)
	}
	name := derefString(sd.Name)
	url := derefString(sd.Url)
	if name == "" || url == "" {
		return nil
	}

	switch derefKind(sd.Kind) {
	case "resource":
		p.resources[name] = url
	case "primitive-type", "complex-type":
		p.types[name] = url
	default:
		p.profiles[name] = url
	}
	return nil
}

// AddValueSetJSON decodes one ValueSet resource and indexes it by name
// and id.
func (p *Provider) AddValueSetJSON(data []byte) error {
	var vs r4.ValueSet
	if err := json.Unmarshal(data, &vs); err != nil {
		return fmt.Errorf("corefhir: decode ValueSet: %w", err)
	}
	name := derefString(vs.Name)
	url := derefString(vs.Url)
	if name == "" || url == "" {
		return nil
	}
	p.valueSets[name] = url
	if id := derefString(vs.Id); id != "" {
		p.valueSets[id] = url
	}
	return nil
}

// AddCodeSystemJSON decodes one CodeSystem resource and indexes it by
// name and id.
func (p *Provider) AddCodeSystemJSON(data []byte) error {
	var cs r4.CodeSystem
	if err := json.Unmarshal(data, &cs); err != nil {
		return fmt.Errorf("corefhir: decode CodeSystem: %w", err)
	}
	name := derefString(cs.Name)
	url := derefString(cs.Url)
	if name == "" || url == "" {
		return nil
	}
	p.codeSys[name] = url
	if id := derefString(cs.Id); id != "" {
		p.codeSys[id] = url
	}
	return nil
}

// Find implements resolver.DefinitionProvider's unconstrained lookup,
// trying every index in an order that favours the most specific kind.
func (p *Provider) Find(symbol string) string {
	for _, m := range []map[string]string{p.profiles, p.resources, p.types, p.valueSets, p.codeSys} {
		if url, ok := m[symbol]; ok {
			return url
		}
	}
	return ""
}

// FindResource implements resolver.DefinitionProvider.
func (p *Provider) FindResource(symbol string) string { return p.resources[symbol] }

// FindType implements resolver.DefinitionProvider.
func (p *Provider) FindType(symbol string) string { return p.types[symbol] }

// FindProfile implements resolver.DefinitionProvider.
func (p *Provider) FindProfile(symbol string) string { return p.profiles[symbol] }

// FindExtension implements resolver.DefinitionProvider by looking in the
// profiles index. AddStructureDefinitionJSON does not single out
// extensions, so an extension definition is found here only when its
// kind is not "resource", "primitive-type" or "complex-type".
func (p *Provider) FindExtension(symbol string) string { return p.profiles[symbol] }

// FindValueSet implements resolver.DefinitionProvider.
func (p *Provider) FindValueSet(symbol string) string { return p.valueSets[symbol] }

// FindCodeSystem implements resolver.DefinitionProvider.
func (p *Provider) FindCodeSystem(symbol string) string { return p.codeSys[symbol] }

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefKind(k *r4.StructureDefinitionKind) string {
	if k == nil {
		return ""
	}
	return string(*k)
}
