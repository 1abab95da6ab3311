package platforms

import "github.com/MrSnakeDoc/scout/internal/platform"

// Config is the top-level structure of platforms.yaml.
type Config struct {
	Platforms []Definition `yaml:"platforms"`
}

// Definition describes one marketplace adapter.
type Definition struct {
	// Name identifies the marketplace (e.g. "amazon").
	Name string `yaml:"name"`

	// Kind selects the adapter implementation: "api" or "html".
	Kind string `yaml:"kind"`

	// BaseURL is the JSON search endpoint (kind: api).
	BaseURL string `yaml:"base_url,omitempty"`

	// SearchURL is the HTML search page with a {query} placeholder
	// (kind: html).
	SearchURL string `yaml:"search_url,omitempty"`

	// Selectors locate listing fields on the search page (kind: html).
	Selectors platform.Selectors `yaml:"selectors,omitempty"`

	// Trust is the fixed per-marketplace trust constant in [0,1].
	Trust float64 `yaml:"trust"`
}
