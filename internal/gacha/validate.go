package gacha

import (
	"fmt"
	"math"
	"strings"
)

// ConfigError reports a base weight table that cannot be drawn from.
// It is fatal at startup.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid weight table: " + strings.Join(e.Problems, "; ")
}

func validateWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0
}

// Validate checks a base table: every weight finite and non-negative,
// craft-only tiers at zero, and at least one drawable tier.
func (w WeightMap) Validate() error {
	var errs []string
	positive := false
	for _, t := range Tiers {
		v := w[t]
		if !validateWeight(v) {
			errs = append(errs, fmt.Sprintf("%s weight must be a finite number >= 0, got %v", t, v))
			continue
		}
		if t.CraftOnly() && v != 0 {
			errs = append(errs, fmt.Sprintf("%s is craft-only and must have weight 0", t))
			continue
		}
		if v > 0 {
			positive = true
		}
	}
	if !positive && len(errs) == 0 {
		errs = append(errs, "no tier has a positive weight")
	}
	if len(errs) > 0 {
		return &ConfigError{Problems: errs}
	}
	return nil
}

// clamp keeps a composed weight inside [0, +Inf).
func clamp(w float64) float64 {
	if math.IsNaN(w) || w < 0 {
		return 0
	}
	return w
}
