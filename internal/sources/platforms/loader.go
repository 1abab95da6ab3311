package platforms

import (
	"fmt"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/scout/internal/domain"
	"github.com/MrSnakeDoc/scout/internal/platform"
)

const (
	kindAPI  = "api"
	kindHTML = "html"
)

// Loader handles loading and parsing of platforms.yaml.
type Loader struct {
	filePath string
}

// NewLoader creates a new platforms loader.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the platforms file.
func (l *Loader) Load() (*Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read platforms file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse platforms yaml: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Platforms) == 0 {
		return fmt.Errorf("platforms file defines no platforms")
	}
	seen := make(map[string]bool, len(cfg.Platforms))
	for _, def := range cfg.Platforms {
		if def.Name == "" {
			return fmt.Errorf("platform with empty name")
		}
		if seen[def.Name] {
			return fmt.Errorf("duplicate platform %q", def.Name)
		}
		seen[def.Name] = true

		switch def.Kind {
		case kindAPI:
			if def.BaseURL == "" {
				return fmt.Errorf("platform %q: kind api requires base_url", def.Name)
			}
		case kindHTML:
			if def.SearchURL == "" {
				return fmt.Errorf("platform %q: kind html requires search_url", def.Name)
			}
			if def.Selectors.Item == "" {
				return fmt.Errorf("platform %q: kind html requires selectors.item", def.Name)
			}
		default:
			return fmt.Errorf("platform %q: unknown kind %q", def.Name, def.Kind)
		}

		if def.Trust < 0 || def.Trust > 1 {
			return fmt.Errorf("platform %q: trust must be in [0,1], got %v", def.Name, def.Trust)
		}
	}
	return nil
}

// BuildRegistry constructs the adapter registry from the parsed
// definitions. All adapters share one HTTP client; request deadlines
// come from the aggregator's contexts.
func BuildRegistry(cfg *Config, client *http.Client) *platform.Registry {
	registry := platform.NewRegistry()
	for _, def := range cfg.Platforms {
		switch def.Kind {
		case kindAPI:
			registry.Register(def.Name, platform.NewAPIAdapter(def.Name, def.BaseURL, client))
		case kindHTML:
			registry.Register(def.Name, platform.NewHTMLAdapter(def.Name, def.SearchURL, def.Selectors, client))
		}
	}
	return registry
}

// BuildTrustTable extracts the per-platform trust constants.
func BuildTrustTable(cfg *Config) domain.TrustTable {
	table := make(domain.TrustTable, len(cfg.Platforms))
	for _, def := range cfg.Platforms {
		table[def.Name] = def.Trust
	}
	return table
}
