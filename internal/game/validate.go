package game

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/xtding233/rarity-engine/internal/gacha"
)

// ValidateRaw checks semantic constraints of a weight table file. Failures
// are reported as *gacha.ConfigError.
func ValidateRaw(cfg RawConfig) error {
	errs := duplicateTierKeys(cfg)

	if len(cfg.Weights) == 0 {
		errs = append(errs, "weights must list at least one tier")
	}
	names := make([]string, 0, len(cfg.Weights))
	for name := range cfg.Weights {
		names = append(names, name)
	}
	sort.Strings(names) // stable error messages

	positive := false
	for _, name := range names {
		w := cfg.Weights[name]
		t, err := gacha.ParseTier(name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("weights.%s: unknown tier", name))
			continue
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			errs = append(errs, fmt.Sprintf("weights.%s must be a finite number >= 0", name))
			continue
		}
		if t.CraftOnly() && w != 0 {
			errs = append(errs, fmt.Sprintf("weights.%s must be 0 (craft-only tier)", name))
		}
		if w > 0 && !t.CraftOnly() {
			positive = true
		}
	}
	if len(cfg.Weights) > 0 && !positive {
		errs = append(errs, "weights must give at least one tier a positive weight")
	}

	if len(errs) > 0 {
		return &gacha.ConfigError{Problems: errs}
	}
	return nil
}

// duplicateTierKeys reports weight keys that spell the same tier differently,
// e.g. "Rare" and "rare". Merging them would pick one at random.
func duplicateTierKeys(cfg RawConfig) []string {
	byTier := make(map[gacha.Tier][]string)
	for name := range cfg.Weights {
		if t, err := gacha.ParseTier(name); err == nil {
			byTier[t] = append(byTier[t], name)
		}
	}
	var errs []string
	for _, t := range gacha.Tiers {
		names := byTier[t]
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		errs = append(errs, fmt.Sprintf("weights.%s: %s set more than once", t, strings.Join(names, ", ")))
	}
	return errs
}

// ValidateCatalog checks the character catalog: unique ids, known tiers,
// non-negative values.
func ValidateCatalog(cat CatalogFile) error {
	var errs []string

	if len(cat.Characters) == 0 {
		errs = append(errs, "characters must not be empty")
	}
	seen := make(map[string]bool, len(cat.Characters))
	for i, c := range cat.Characters {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			errs = append(errs, fmt.Sprintf("characters[%d].id is required", i))
		} else if seen[id] {
			errs = append(errs, fmt.Sprintf("characters[%d].id %q is duplicated", i, id))
		}
		seen[id] = true
		if _, err := gacha.ParseTier(c.Tier); err != nil {
			errs = append(errs, fmt.Sprintf("characters[%d].tier %q is unknown", i, c.Tier))
		}
		if c.Value < 0 {
			errs = append(errs, fmt.Sprintf("characters[%d].value must be >= 0", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
