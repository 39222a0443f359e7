// resolve.go
package game

import (
	"strings"

	"github.com/xtding233/rarity-engine/internal/gacha"
)

// Weights converts a validated RawConfig into the engine's table.
func Weights(cfg RawConfig) (gacha.WeightMap, error) {
	if err := ValidateRaw(cfg); err != nil {
		return gacha.WeightMap{}, err
	}
	m := make(map[gacha.Tier]float64, len(cfg.Weights))
	for name, w := range cfg.Weights {
		t, _ := gacha.ParseTier(name) // validated above
		m[t] = w
	}
	return gacha.WeightsFromMap(m), nil
}

// PoolWeights is a gacha.WeightSource backed by the YAML tables of one pool.
type PoolWeights struct {
	Loader *Loader
	Pool   string
}

func (p PoolWeights) BaseWeights() (gacha.WeightMap, error) {
	cfg, err := p.Loader.LoadMerged(p.Pool)
	if err != nil {
		return gacha.WeightMap{}, err
	}
	return Weights(cfg)
}

// Characters converts a validated catalog file into engine characters.
func Characters(cat CatalogFile) []gacha.Character {
	out := make([]gacha.Character, 0, len(cat.Characters))
	for _, c := range cat.Characters {
		t, err := gacha.ParseTier(c.Tier)
		if err != nil {
			continue
		}
		name := c.Name
		if name == "" {
			name = c.ID
		}
		out = append(out, gacha.Character{
			ID:    strings.TrimSpace(c.ID),
			Name:  name,
			Tier:  t,
			Value: c.Value,
		})
	}
	return out
}
