package catalog

// Model describes one completion model known to the catalog
type Model struct {
	// Model identifier (set during loading from the YAML map key)
	ID          string `yaml:"-" json:"id"`
	Provider    string `yaml:"-" json:"provider"`
	DisplayName string `yaml:"display_name" json:"display_name"`
}

// Provider groups the models served by one completion provider
type Provider struct {
	Name           string           `yaml:"-" json:"name"`
	RequiresAPIKey bool             `yaml:"requires_api_key" json:"requires_api_key"`
	Models         map[string]Model `yaml:"models" json:"models"`
}

type modelsFile struct {
	Providers map[string]Provider `yaml:"providers"`
}

type labelsFile struct {
	Labels []string `yaml:"labels"`
}
