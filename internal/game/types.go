// types.go
package game

// RawConfig is a weight table file loaded from YAML.
// Weights are keyed by tier name; tiers left out keep the value from the
// file underneath (or 0 for the default table).
type RawConfig struct {
	Version string             `yaml:"version"`
	Weights map[string]float64 `yaml:"weights"`
	Notes   string             `yaml:"notes,omitempty"`
}

// CatalogFile is the character catalog loaded from YAML.
type CatalogFile struct {
	Version    string         `yaml:"version"`
	Characters []CharacterDef `yaml:"characters"`
}

type CharacterDef struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Tier  string `yaml:"tier"`
	Value int    `yaml:"value"`
}
