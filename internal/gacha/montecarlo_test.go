package gacha

import "testing"

func TestCalcStats(t *testing.T) {
	s := calcStats([]int{1, 2, 3, 4})
	if s.Mean != 2.5 || s.Var != 1.25 {
		t.Fatalf("mean=%v var=%v", s.Mean, s.Var)
	}
	if s.P50 != 2.5 {
		t.Fatalf("p50=%v", s.P50)
	}
	if e := calcStats(nil); e.Mean != 0 || e.Samples != nil {
		t.Fatalf("empty samples should give zero stats")
	}
}

func TestDrawsUntil(t *testing.T) {
	tbl := Table{Weights: WeightMap{Common: 50, Rare: 50}}
	s := DrawsUntil(tbl, Rare, 20000, 1000, NewSeededRNG(3))
	// geometric with p=0.5 has mean 2
	if s.Mean < 1.9 || s.Mean > 2.1 {
		t.Fatalf("mean draws until Rare = %v, want ~2", s.Mean)
	}
	if s := DrawsUntil(tbl, Secret, 10, 10, NewSeededRNG(3)); s.Mean != 0 {
		t.Fatalf("unreachable target should give zero stats, got %+v", s)
	}
	floor := Table{Fallback: Epic}
	if s := DrawsUntil(floor, Epic, 5, 10, nil); s.Mean != 1 {
		t.Fatalf("fallback at target should hit on the first draw, got %v", s.Mean)
	}
}
