// Package packageindex implements a resolver.DefinitionProvider over an
// on-disk NPM-style FHIR package directory (the layout used by the FHIR
// package registry: a "package" subdirectory of one JSON file per
// resource, named "<ResourceType>-<id>.json"). Unlike providers/corefhir,
// which fully decodes each resource with encoding/json, this provider
// only needs three fields (resourceType, url, name) out of
// potentially large StructureDefinition/ValueSet/CodeSystem bodies, so
// it scans with github.com/buger/jsonparser instead of paying for a
// full unmarshal per file, the same shortcut the rest of the example
// corpus takes for large-document indexing.
package packageindex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/buger/jsonparser"
)

// Provider answers symbol lookups against an index built by Load from
// one or more package directories.
type Provider struct {
	resources map[string]string
	profiles  map[string]string
	extension map[string]string
	valueSets map[string]string
	codeSys   map[string]string
}

// New creates an empty Provider; call Load to index package
// directories into it.
func New() *Provider {
	return &Provider{
		resources: make(map[string]string),
		profiles:  make(map[string]string),
		extension: make(map[string]string),
		valueSets: make(map[string]string),
		codeSys:   make(map[string]string),
	}
}

// Load scans packageDir (or its "package" subdirectory, if present)
// for JSON resource files and indexes each one's name, id, and url.
// Load tolerates and skips files it cannot parse; it does not treat a
// malformed resource as fatal to the whole package.
func (p *Provider) Load(packageDir string) error {
	contentDir := packageDir
	if sub := filepath.Join(packageDir, "package"); dirExists(sub) {
		contentDir = sub
	}

	entries, err := os.ReadDir(contentDir)
	if err != nil {
		return fmt.Errorf("packageindex: read package directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if name == "package.json" || name == ".index.json" {
			continue
		}
		p.indexFile(filepath.Join(contentDir, name))
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (p *Provider) indexFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	resourceType, err := jsonparser.GetString(data, "resourceType")
	if err != nil {
		return
	}
	url, _ := jsonparser.GetString(data, "url")
	resName, _ := jsonparser.GetString(data, "name")
	id, _ := jsonparser.GetString(data, "id")
	if url == "" {
		return
	}

	switch resourceType {
	case "StructureDefinition":
		p.indexStructureDefinition(data, url, resName, id)
	case "ValueSet":
		put(p.valueSets, url, resName, id)
	case "CodeSystem":
		put(p.codeSys, url, resName, id)
	}
}

func (p *Provider) indexStructureDefinition(data []byte, url, name, id string) {
	sdType, _ := jsonparser.GetString(data, "type")
	kind, _ := jsonparser.GetString(data, "kind")
	derivation, _ := jsonparser.GetString(data, "derivation")
	// A base definition is named after the type it defines; any other
	// resource or datatype definition constrains that type (a profile).
	base := derivation != "constraint" && sdType != "" && (sdType == name || sdType == id)
	switch {
	case sdType == "Extension":
		put(p.extension, url, name, id)
	case base && (kind == "resource" || kind == "complex-type" || kind == "primitive-type"):
		put(p.resources, url, name, id)
	default:
		put(p.profiles, url, name, id)
	}
}

func put(m map[string]string, url, name, id string) {
	if name != "" {
		m[name] = url
	}
	if id != "" {
		m[id] = url
	}
}

// Find implements resolver.DefinitionProvider's unconstrained lookup.
func (p *Provider) Find(symbol string) string {
	for _, m := range []map[string]string{p.profiles, p.extension, p.resources, p.valueSets, p.codeSys} {
		if url, ok := m[symbol]; ok {
			return url
		}
	}
	return ""
}

// FindResource implements resolver.DefinitionProvider.
func (p *Provider) FindResource(symbol string) string { return p.resources[symbol] }

// FindType implements resolver.DefinitionProvider. Package indexes do
// not carry complex/primitive datatype definitions distinctly from
// resources in this scan, so type lookups fall through to resources.
func (p *Provider) FindType(symbol string) string { return p.resources[symbol] }

// FindProfile implements resolver.DefinitionProvider.
func (p *Provider) FindProfile(symbol string) string { return p.profiles[symbol] }

// FindExtension implements resolver.DefinitionProvider.
func (p *Provider) FindExtension(symbol string) string { return p.extension[symbol] }

// FindValueSet implements resolver.DefinitionProvider.
func (p *Provider) FindValueSet(symbol string) string { return p.valueSets[symbol] }

// FindCodeSystem implements resolver.DefinitionProvider.
func (p *Provider) FindCodeSystem(symbol string) string { return p.codeSys[symbol] }
