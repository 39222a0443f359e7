package gacha

import "fmt"

// WeightMap holds one weight per tier, indexed by Tier.
// It is an array so assignment always copies.
type WeightMap [tierCount]float64

// DefaultWeights is the stock drop table.
var DefaultWeights = WeightMap{
	Common:    55,
	Rare:      25,
	Epic:      12,
	Legendary: 5,
	Mythic:    2,
	Titan:     0.6,
	Fusion:    0.25,
	Secret:    0.1,
	Ultimate:  0.05,
	Evolve:    0,
}

// WeightsFromMap builds a WeightMap from named entries. Missing tiers are 0.
func WeightsFromMap(m map[Tier]float64) WeightMap {
	var w WeightMap
	for t, v := range m {
		if t.Valid() {
			w[t] = v
		}
	}
	return w
}

// Total sums all weights.
func (w WeightMap) Total() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Percentages returns each tier's share of the total in percent.
// A zero total yields all zeros.
func (w WeightMap) Percentages() WeightMap {
	var out WeightMap
	total := w.Total()
	if total <= 0 {
		return out
	}
	for _, t := range Tiers {
		out[t] = w[t] / total * 100
	}
	return out
}

func (w WeightMap) String() string {
	s := "{"
	for i, t := range Tiers {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s:%g", t, w[t])
	}
	return s + "}"
}

// WeightSource supplies the base table. It is read once when an Engine is built.
type WeightSource interface {
	BaseWeights() (WeightMap, error)
}

// StaticWeights is a WeightSource for a fixed table.
type StaticWeights WeightMap

func (s StaticWeights) BaseWeights() (WeightMap, error) { return WeightMap(s), nil }
