package gacha

import (
	"context"
	"log"
)

// ModifierSource reports a player's active modifiers and pending override.
// Expired timed effects must already be filtered out.
type ModifierSource interface {
	ActiveModifiers(ctx context.Context, playerID string) (Active, error)
}

// Adjustments is the folded form of a player's modifiers, grouped by source
// so the compositor can apply them in a fixed order.
type Adjustments struct {
	BySource [sourceCount][]Modifier
	// Floor is the highest minimum_tier seen; only meaningful when HasFloor.
	Floor    Tier
	HasFloor bool
	Override *Override
	// Dropped holds modifiers that failed validation.
	Dropped []Modifier
}

// Aggregate validates and groups modifiers. Invalid entries are dropped and
// logged to logger (nil means no logging).
func Aggregate(active Active, logger *log.Logger) Adjustments {
	var adj Adjustments
	for _, m := range active.Modifiers {
		if err := m.Validate(); err != nil {
			adj.Dropped = append(adj.Dropped, m)
			if logger != nil {
				logger.Printf("drop modifier %s: %v", m, err)
			}
			continue
		}
		if m.Kind == KindMinimumTier {
			if !adj.HasFloor || m.Tier > adj.Floor {
				adj.Floor = m.Tier
				adj.HasFloor = true
			}
			continue
		}
		adj.BySource[m.Source] = append(adj.BySource[m.Source], m)
	}
	if active.Override != nil {
		o := *active.Override
		adj.Override = &o
	}
	return adj
}

// Modifiers returns all applied (non-floor) modifiers in composition order.
func (a Adjustments) Modifiers() []Modifier {
	var out []Modifier
	for _, ms := range a.BySource {
		out = append(out, ms...)
	}
	return out
}

// equipmentBoost reports whether any equipment rarity boost is present.
func (a Adjustments) equipmentBoost() bool {
	for _, m := range a.BySource[SourceEquipment] {
		if m.Kind == KindGlobalPercent && m.Magnitude > 0 {
			return true
		}
	}
	return false
}
