package gacha

import (
	"math"
	"testing"
)

// fixedRNG always returns v (clamped into [0,n)).
type fixedRNG struct{ v int64 }

func (f fixedRNG) Int64N(n int64) int64 {
	if f.v >= n {
		return n - 1
	}
	return f.v
}

func TestDrawBounds(t *testing.T) {
	tbl := Table{Weights: WeightMap{Common: 1, Rare: 1}}
	if got := Draw(tbl, fixedRNG{0}); got != Common {
		t.Fatalf("r=1 should land on Common; got %s", got)
	}
	if got := Draw(tbl, fixedRNG{99}); got != Common {
		t.Fatalf("r=100 should land on Common (cumulative 100 >= 100); got %s", got)
	}
	if got := Draw(tbl, fixedRNG{100}); got != Rare {
		t.Fatalf("r=101 should land on Rare; got %s", got)
	}
	if got := Draw(tbl, fixedRNG{1 << 40}); got != Rare {
		t.Fatalf("r=total should land on the last positive tier; got %s", got)
	}
}

func TestDrawZeroTotalFallsBack(t *testing.T) {
	var zero WeightMap
	for seed := uint64(0); seed < 50; seed++ {
		if got := Draw(Table{Weights: zero, Fallback: LowestTier}, NewSeededRNG(seed)); got != Common {
			t.Fatalf("seed %d: expected Common, got %s", seed, got)
		}
	}
	// sub-unit weights truncate to zero after scaling
	tiny := WeightMap{Rare: 0.004, Epic: 0.009}
	if got := Draw(Table{Weights: tiny, Fallback: LowestTier}, nil); got != Common {
		t.Fatalf("truncated weights should fall back; got %s", got)
	}
	if got := Draw(Table{Weights: zero, Fallback: Mythic}, nil); got != Mythic {
		t.Fatalf("expected floor fallback Mythic, got %s", got)
	}
}

func TestDrawIgnoresNaNAndNegative(t *testing.T) {
	w := WeightMap{Common: math.NaN(), Rare: -5, Epic: 2}
	for seed := uint64(0); seed < 20; seed++ {
		if got := Draw(Table{Weights: w}, NewSeededRNG(seed)); got != Epic {
			t.Fatalf("only Epic is drawable; got %s", got)
		}
	}
}

func TestDrawHugeWeightsDoNotOverflow(t *testing.T) {
	w := WeightMap{Common: math.Inf(1), Rare: 1e300, Epic: 1}
	got := Draw(Table{Weights: w}, NewSeededRNG(3))
	if !got.Valid() {
		t.Fatalf("got invalid tier %d", got)
	}
}

func TestDrawAlwaysReturnsDeclaredTier(t *testing.T) {
	rng := NewSeededRNG(7)
	tbl := Table{Weights: DefaultWeights}
	for i := 0; i < 10000; i++ {
		got := Draw(tbl, rng)
		if !got.Valid() || got.CraftOnly() {
			t.Fatalf("draw %d returned %s", i, got)
		}
	}
}

func TestDrawStatApprox(t *testing.T) {
	base := WeightMap{Common: 60, Rare: 25, Epic: 10, Legendary: 4, Mythic: 1}
	const n = 1_000_000
	f := Simulate(Compose(base, Adjustments{}), n, NewSeededRNG(42))
	for _, tier := range Tiers {
		want := base[tier] // weights already sum to 100
		if diff := f.Share(tier) - want; diff > 0.5 || diff < -0.5 {
			t.Fatalf("%s: share=%f not within 0.5pp of %f", tier, f.Share(tier), want)
		}
	}
	if f.Counts[Evolve] != 0 || f.Counts[Titan] != 0 {
		t.Fatalf("zero-weight tiers were drawn: %v", f.Counts)
	}
}
