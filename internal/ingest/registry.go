package ingest

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// Registry holds the field-mapping configuration for all scraping sources.
type Registry struct {
	Sources []SourceConfig `yaml:"sources"`
}

// SourceConfig declares how one source's raw field names map onto the
// canonical listing fields. Candidates are tried in priority order.
type SourceConfig struct {
	ID     string              `yaml:"id"`
	Name   string              `yaml:"name"`
	Fields map[string][]string `yaml:"fields"`
}

// LoadRegistry reads the embedded sources.yaml, or the file at path when the
// embedded copy is unavailable (local development override).
func LoadRegistry(path string) (*Registry, error) {
	data, err := sourcesYAML.ReadFile("config/sources.yaml")
	if err != nil {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ingest: load source registry: %w", err)
		}
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("ingest: parse source registry: %w", err)
	}

	return &reg, nil
}

// Lookup returns the config for a source ID, or nil when unregistered.
func (r *Registry) Lookup(id string) *SourceConfig {
	for i := range r.Sources {
		if r.Sources[i].ID == id {
			return &r.Sources[i]
		}
	}
	return nil
}
