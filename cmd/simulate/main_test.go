package main

import (
	"flag"
	"testing"

	"github.com/xtding233/rarity-engine/internal/gacha"
)

func TestParseModifiers(t *testing.T) {
	mods, err := parseModifiers("timed:tier_boost:Rare:0.25, set:range_mega:Epic:Mythic:2, equipment:global_percent:0.1, set:minimum_tier:Epic")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []gacha.Modifier{
		gacha.TierBoost(gacha.Rare, 0.25),
		{Source: gacha.SourceSet, Kind: gacha.KindRangeMega, From: gacha.Epic, To: gacha.Mythic, Magnitude: 2},
		gacha.GlobalPercent(gacha.SourceEquipment, 0.1),
		gacha.MinimumTier(gacha.SourceSet, gacha.Epic),
	}
	if len(mods) != len(want) {
		t.Fatalf("got %d modifiers, want %d", len(mods), len(want))
	}
	for i := range want {
		if mods[i] != want[i] {
			t.Fatalf("mods[%d] = %+v, want %+v", i, mods[i], want[i])
		}
	}
}

func TestParseModifiersRejects(t *testing.T) {
	for _, in := range []string{
		"timed:tier_boost",                // too short
		"equipment:tier_boost:Rare:0.5",   // kind not allowed for source
		"timed:range_boost:Mythic:Rare:1", // reversed range
		"timed:tier_boost:Nope:1",         // unknown tier
		"timed:tier_boost:Rare:lots",      // bad magnitude
		"set:minimum_tier:Evolve",         // craft-only floor
	} {
		if _, err := parseModifiers(in); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
	if mods, err := parseModifiers(""); err != nil || len(mods) != 0 {
		t.Fatalf("empty list = %v, %v", mods, err)
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	o, err := parseFlags(flag.NewFlagSet("simulate", flag.ContinueOnError), []string{"-n", "10", "-target", "Epic"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if o.draws != 10 || o.target != "Epic" || o.dataDir != "data" || o.seed != 1 {
		t.Fatalf("unexpected options %+v", o)
	}
}
