package catalog

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the embedded completion-model catalog and chat-name labels.
// It is read-only after construction.
type Registry struct {
	providers map[string]*Provider
	labels    []string
}

// NewRegistry loads the embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		providers: make(map[string]*Provider),
	}

	var models modelsFile
	if err := readYAML("config/models.yaml", &models); err != nil {
		return nil, err
	}
	for name, p := range models.Providers {
		p := p
		p.Name = name
		for id, m := range p.Models {
			m.ID = id
			m.Provider = name
			p.Models[id] = m
		}
		r.providers[name] = &p
	}

	var labels labelsFile
	if err := readYAML("config/labels.yaml", &labels); err != nil {
		return nil, err
	}
	if len(labels.Labels) == 0 {
		return nil, fmt.Errorf("catalog: no chat labels defined")
	}
	r.labels = labels.Labels

	return r, nil
}

func readYAML(filename string, dest interface{}) error {
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	return nil
}

// Labels returns a copy of the decorative chat-name labels
func (r *Registry) Labels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// GetProvider returns the named provider
func (r *Registry) GetProvider(name string) (*Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return p, nil
}

// GetModel returns a model entry. The provider must exist; an unknown model
// returns ok=false so callers can decide whether to allow it.
func (r *Registry) GetModel(provider, model string) (Model, bool, error) {
	p, err := r.GetProvider(provider)
	if err != nil {
		return Model{}, false, err
	}
	m, ok := p.Models[model]
	return m, ok, nil
}

// ListProviders returns provider names in sorted order
func (r *Registry) ListProviders() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
