package gacha

import (
	"math"
	"sort"
)

// Frequencies counts simulated outcomes per tier.
type Frequencies struct {
	Draws  int
	Counts [tierCount]int
}

// Share returns the observed percentage for t.
func (f Frequencies) Share(t Tier) float64 {
	if f.Draws == 0 || !t.Valid() {
		return 0
	}
	return float64(f.Counts[t]) / float64(f.Draws) * 100
}

// Simulate samples tbl n times.
func Simulate(tbl Table, n int, rng RandomSource) Frequencies {
	f := Frequencies{Draws: max(n, 0)}
	if rng == nil {
		rng = DefaultRNG()
	}
	for i := 0; i < n; i++ {
		f.Counts[Draw(tbl, rng)]++
	}
	return f
}

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// DrawsUntil runs trials and records, per trial, how many draws it took to
// get a result at or above target. Trials give up after limit draws and
// record limit. A target the table can never reach returns zero Stats.
func DrawsUntil(tbl Table, target Tier, trials, limit int, rng RandomSource) Stats {
	if trials <= 0 || limit <= 0 || !reachable(tbl, target) {
		return Stats{}
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	samples := make([]int, trials)
	for i := range samples {
		draws := limit
		for d := 1; d <= limit; d++ {
			if Draw(tbl, rng) >= target {
				draws = d
				break
			}
		}
		samples[i] = draws
	}
	return calcStats(samples)
}

// reachable reports whether a draw from tbl can land at or above target.
func reachable(tbl Table, target Tier) bool {
	var total int64
	for _, t := range Tiers {
		s := scaled(tbl.Weights[t])
		total += s
		if t >= target && s > 0 {
			return true
		}
	}
	return total <= 0 && tbl.Fallback >= target
}
