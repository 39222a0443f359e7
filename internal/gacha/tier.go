package gacha

import (
	"errors"
	"strings"
)

// Tier is a rarity category. Lower values are more common.
type Tier int

const (
	Common Tier = iota
	Rare
	Epic
	Legendary
	Mythic
	Titan
	Fusion
	Secret
	Ultimate
	// Evolve is craft-only: its weight is always 0 and it is never drawn.
	Evolve

	tierCount
)

var ErrUnknownTier = errors.New("unknown rarity tier")

// Tiers is the fixed declared order used by every cumulative walk.
var Tiers = [tierCount]Tier{Common, Rare, Epic, Legendary, Mythic, Titan, Fusion, Secret, Ultimate, Evolve}

// LowestTier is the fallback outcome of a degenerate table.
const LowestTier = Common

type tierInfo struct {
	name  string
	color int
	glyph string
}

var tierTable = [tierCount]tierInfo{
	Common:    {"Common", 0x95A5A6, "⚪"},
	Rare:      {"Rare", 0x3498DB, "🔵"},
	Epic:      {"Epic", 0x9B59B6, "🟣"},
	Legendary: {"Legendary", 0xF1C40F, "🟡"},
	Mythic:    {"Mythic", 0xE74C3C, "🔴"},
	Titan:     {"Titan", 0x2C3E50, "🗿"},
	Fusion:    {"Fusion", 0x1ABC9C, "🌀"},
	Secret:    {"Secret", 0x000000, "⬛"},
	Ultimate:  {"Ultimate", 0xFFFFFF, "🌟"},
	Evolve:    {"Evolve", 0xE67E22, "🧬"},
}

// Valid reports whether t is one of the declared tiers.
func (t Tier) Valid() bool { return t >= 0 && t < tierCount }

// CraftOnly reports whether t can only be produced by crafting.
func (t Tier) CraftOnly() bool { return t == Evolve }

func (t Tier) String() string {
	if !t.Valid() {
		return "Unknown"
	}
	return tierTable[t].name
}

// Color is the embed color used by the host when rendering t.
func (t Tier) Color() int {
	if !t.Valid() {
		return 0
	}
	return tierTable[t].color
}

// Glyph is the emoji used by the host when rendering t.
func (t Tier) Glyph() string {
	if !t.Valid() {
		return ""
	}
	return tierTable[t].glyph
}

// ParseTier looks a tier up by name, case-insensitively.
func ParseTier(name string) (Tier, error) {
	name = strings.TrimSpace(name)
	for _, t := range Tiers {
		if strings.EqualFold(tierTable[t].name, name) {
			return t, nil
		}
	}
	return 0, ErrUnknownTier
}

// MarshalText implements encoding.TextMarshaler so tiers appear by name in YAML.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrUnknownTier
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
