package gacha

import "math"

// ScaleFactor converts fractional weights to integers before the
// cumulative walk.
const ScaleFactor = 100

// maxScaled keeps the sum of all scaled weights inside int64.
const maxScaled = math.MaxInt64 / int64(tierCount)

// scaled truncates w*ScaleFactor toward zero.
func scaled(w float64) int64 {
	if math.IsNaN(w) || w <= 0 {
		return 0
	}
	s := w * ScaleFactor
	if s >= float64(maxScaled) {
		return maxScaled
	}
	return int64(s)
}

// Draw picks one tier from tbl.
// Weights are scaled by ScaleFactor and truncated, r is drawn uniformly from
// [1, total], and tiers are walked in declared order; the first tier whose
// running sum reaches r wins. A non-positive total returns tbl.Fallback
// without touching rng.
func Draw(tbl Table, rng RandomSource) Tier {
	var total int64
	for _, t := range Tiers {
		total += scaled(tbl.Weights[t])
	}
	if total <= 0 {
		return tbl.Fallback
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	r := rng.Int64N(total) + 1
	var acc int64
	for _, t := range Tiers {
		acc += scaled(tbl.Weights[t])
		if acc >= r {
			return t
		}
	}
	// unreachable: acc == total >= r after the loop
	return tbl.Fallback
}
