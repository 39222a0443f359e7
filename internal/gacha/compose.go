package gacha

// EquipmentCommonPenalty scales the lowest tier whenever an equipment rarity
// boost is active.
const EquipmentCommonPenalty = 0.9

// Table is a composed, ready-to-sample distribution.
type Table struct {
	Weights WeightMap
	// Fallback is returned when every weight is zero: the lowest tier, or the
	// floor tier when a minimum_tier modifier is active.
	Fallback Tier
}

// Compose applies adj to a copy of base. Order:
//  1. timed modifiers
//  2. set modifiers
//  3. equipment modifiers, then the lowest-tier equipment penalty
//  4. floor: tiers below it drop to zero
//
// Tiers whose base weight is exactly zero are never touched, and every weight
// is clamped to >= 0 after each multiplication.
func Compose(base WeightMap, adj Adjustments) Table {
	w := base
	for src := Source(0); src < sourceCount; src++ {
		for _, m := range adj.BySource[src] {
			for _, t := range Tiers {
				if base[t] == 0 {
					continue
				}
				if f, ok := m.factor(t); ok {
					w[t] = clamp(w[t] * f)
				}
			}
		}
	}
	if adj.equipmentBoost() && base[LowestTier] != 0 {
		w[LowestTier] = clamp(w[LowestTier] * EquipmentCommonPenalty)
	}

	tbl := Table{Weights: w, Fallback: LowestTier}
	if adj.HasFloor {
		for _, t := range Tiers {
			if t < adj.Floor {
				tbl.Weights[t] = 0
			}
		}
		tbl.Fallback = adj.Floor
	}
	return tbl
}
