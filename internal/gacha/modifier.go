package gacha

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Source identifies where a modifier came from. The compositor applies
// sources in declaration order.
type Source int

const (
	SourceTimed Source = iota // consumable potions, expire on their own
	SourceSet                 // permanent collection-set completions
	SourceEquipment           // equipped items

	sourceCount
)

var sourceNames = [sourceCount]string{"timed", "set", "equipment"}

func (s Source) String() string {
	if s < 0 || s >= sourceCount {
		return "unknown"
	}
	return sourceNames[s]
}

// ParseSource looks a source up by name.
func ParseSource(name string) (Source, error) {
	for i, n := range sourceNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Source(i), nil
		}
	}
	return 0, fmt.Errorf("unknown modifier source %q", name)
}

// Kind tags how a modifier's magnitude is applied.
type Kind int

const (
	KindTierBoost     Kind = iota + 1 // one tier, w *= 1+m
	KindTierMega                      // one tier, w *= m
	KindRangeBoost                    // From..To, w *= 1+m
	KindRangeMega                     // From..To, w *= m
	KindGlobalPercent                 // every tier but the lowest, w *= 1+m
	KindMinimumTier                   // outcome must be at least Tier
)

var kindNames = map[Kind]string{
	KindTierBoost:     "tier_boost",
	KindTierMega:      "tier_mega",
	KindRangeBoost:    "range_boost",
	KindRangeMega:     "range_mega",
	KindGlobalPercent: "global_percent",
	KindMinimumTier:   "minimum_tier",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseKind looks a kind up by its storage name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == strings.TrimSpace(name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown modifier kind %q", name)
}

// allowedKinds lists which kinds each source may produce.
var allowedKinds = [sourceCount]map[Kind]bool{
	SourceTimed: {
		KindTierBoost: true, KindTierMega: true,
		KindRangeBoost: true, KindRangeMega: true,
		KindGlobalPercent: true, KindMinimumTier: true,
	},
	SourceSet: {
		KindRangeBoost: true, KindRangeMega: true,
		KindGlobalPercent: true, KindMinimumTier: true,
	},
	SourceEquipment: {
		KindGlobalPercent: true,
	},
}

var ErrInvalidModifier = errors.New("invalid modifier")

// Modifier is one adjustment to the weight table.
// Tier is used by single-tier kinds and minimum_tier; From/To by range kinds.
type Modifier struct {
	Source    Source
	Kind      Kind
	Magnitude float64
	Tier      Tier
	From      Tier
	To        Tier
}

// TierBoost returns a timed single-tier additive potion effect.
func TierBoost(t Tier, m float64) Modifier {
	return Modifier{Source: SourceTimed, Kind: KindTierBoost, Tier: t, Magnitude: m}
}

// TierMega returns a timed single-tier multiplicative effect.
func TierMega(t Tier, m float64) Modifier {
	return Modifier{Source: SourceTimed, Kind: KindTierMega, Tier: t, Magnitude: m}
}

// RangeBoost returns an additive modifier over from..to for the given source.
func RangeBoost(src Source, from, to Tier, m float64) Modifier {
	return Modifier{Source: src, Kind: KindRangeBoost, From: from, To: to, Magnitude: m}
}

// GlobalPercent returns a global additive percentage for the given source.
func GlobalPercent(src Source, m float64) Modifier {
	return Modifier{Source: src, Kind: KindGlobalPercent, Magnitude: m}
}

// MinimumTier returns a floor directive for the given source.
func MinimumTier(src Source, t Tier) Modifier {
	return Modifier{Source: src, Kind: KindMinimumTier, Tier: t}
}

// Validate rejects modifiers that cannot be applied.
func (m Modifier) Validate() error {
	if m.Source < 0 || m.Source >= sourceCount {
		return fmt.Errorf("%w: source %d", ErrInvalidModifier, m.Source)
	}
	if !allowedKinds[m.Source][m.Kind] {
		return fmt.Errorf("%w: kind %s not allowed for %s source", ErrInvalidModifier, m.Kind, m.Source)
	}
	if math.IsNaN(m.Magnitude) || math.IsInf(m.Magnitude, 0) {
		return fmt.Errorf("%w: magnitude %v", ErrInvalidModifier, m.Magnitude)
	}
	switch m.Kind {
	case KindTierBoost, KindTierMega:
		if !m.Tier.Valid() {
			return fmt.Errorf("%w: tier %d", ErrInvalidModifier, m.Tier)
		}
	case KindRangeBoost, KindRangeMega:
		if !m.From.Valid() || !m.To.Valid() || m.From > m.To {
			return fmt.Errorf("%w: range %s..%s", ErrInvalidModifier, m.From, m.To)
		}
	case KindMinimumTier:
		if !m.Tier.Valid() || m.Tier.CraftOnly() {
			return fmt.Errorf("%w: floor %s", ErrInvalidModifier, m.Tier)
		}
	}
	return nil
}

// factor is the multiplier this modifier applies to tier t, and whether t is affected.
func (m Modifier) factor(t Tier) (float64, bool) {
	switch m.Kind {
	case KindTierBoost:
		return 1 + m.Magnitude, t == m.Tier
	case KindTierMega:
		return m.Magnitude, t == m.Tier
	case KindRangeBoost:
		return 1 + m.Magnitude, t >= m.From && t <= m.To
	case KindRangeMega:
		return m.Magnitude, t >= m.From && t <= m.To
	case KindGlobalPercent:
		return 1 + m.Magnitude, t != LowestTier
	}
	return 1, false
}

func (m Modifier) String() string {
	switch m.Kind {
	case KindTierBoost, KindTierMega:
		return fmt.Sprintf("%s %s %s %+g", m.Source, m.Kind, m.Tier, m.Magnitude)
	case KindRangeBoost, KindRangeMega:
		return fmt.Sprintf("%s %s %s..%s %+g", m.Source, m.Kind, m.From, m.To, m.Magnitude)
	case KindMinimumTier:
		return fmt.Sprintf("%s %s %s", m.Source, m.Kind, m.Tier)
	}
	return fmt.Sprintf("%s %s %+g", m.Source, m.Kind, m.Magnitude)
}

// Override forces the next draw to an exact tier. It is single-shot.
type Override struct {
	Tier Tier
}

// Active is what a ModifierSource reports for one player at draw time.
type Active struct {
	Modifiers []Modifier
	Override  *Override
}
