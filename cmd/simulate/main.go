// Command simulate samples a weight table offline and prints observed rates.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/xtding233/rarity-engine/internal/config"
	"github.com/xtding233/rarity-engine/internal/gacha"
	"github.com/xtding233/rarity-engine/internal/game"
)

type options struct {
	dataDir string
	pool    string
	draws   int
	trials  int
	limit   int
	seed    uint64
	target  string
	mods    string
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.dataDir, "data", "data", "Directory holding tables/")
	fs.StringVar(&o.pool, "pool", "", "Weight table overlay")
	fs.IntVar(&o.draws, "n", 1_000_000, "Draws to simulate")
	fs.IntVar(&o.trials, "trials", 10_000, "Trials for the draws-until-target estimate")
	fs.IntVar(&o.limit, "limit", 10_000, "Give up a trial after this many draws")
	fs.Uint64Var(&o.seed, "seed", 1, "RNG seed")
	fs.StringVar(&o.target, "target", "Legendary", "Tier for the draws-until estimate")
	fs.StringVar(&o.mods, "mods", "", "Comma-separated modifiers, e.g. timed:tier_boost:Rare:0.25,set:global_percent:0.1")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

// parseModifiers reads source:kind[:tier[:tier]]:magnitude entries.
// minimum_tier takes source:minimum_tier:tier.
func parseModifiers(list string) ([]gacha.Modifier, error) {
	var out []gacha.Modifier
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, ":")
		if len(parts) < 3 {
			return nil, fmt.Errorf("modifier %q: want source:kind:...", item)
		}
		src, err := gacha.ParseSource(parts[0])
		if err != nil {
			return nil, err
		}
		kind, err := gacha.ParseKind(parts[1])
		if err != nil {
			return nil, err
		}
		m := gacha.Modifier{Source: src, Kind: kind}
		rest := parts[2:]
		tiers := 0
		switch kind {
		case gacha.KindTierBoost, gacha.KindTierMega, gacha.KindMinimumTier:
			tiers = 1
		case gacha.KindRangeBoost, gacha.KindRangeMega:
			tiers = 2
		}
		wantParts := tiers + 1
		if kind == gacha.KindMinimumTier {
			wantParts = 1
		}
		if len(rest) != wantParts {
			return nil, fmt.Errorf("modifier %q: expected %d fields after kind", item, wantParts)
		}
		var ts []gacha.Tier
		for _, name := range rest[:tiers] {
			t, err := gacha.ParseTier(name)
			if err != nil {
				return nil, fmt.Errorf("modifier %q: %w", item, err)
			}
			ts = append(ts, t)
		}
		switch tiers {
		case 1:
			m.Tier = ts[0]
		case 2:
			m.From, m.To = ts[0], ts[1]
		}
		if kind != gacha.KindMinimumTier {
			if _, err := fmt.Sscanf(rest[tiers], "%g", &m.Magnitude); err != nil {
				return nil, fmt.Errorf("modifier %q: magnitude: %w", item, err)
			}
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func main() {
	o, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	target, err := gacha.ParseTier(o.target)
	if err != nil {
		config.Exitf("target %q: %v", o.target, err)
	}
	mods, err := parseModifiers(o.mods)
	if err != nil {
		config.Exitf("mods: %v", err)
	}
	base, err := game.PoolWeights{Loader: game.NewLoader(o.dataDir), Pool: o.pool}.BaseWeights()
	if err != nil {
		config.Exitf("load weights: %v", err)
	}
	if err := base.Validate(); err != nil {
		config.Exitf("%v", err)
	}

	tbl := gacha.Compose(base, gacha.Aggregate(gacha.Active{Modifiers: mods}, nil))
	rng := gacha.NewSeededRNG(o.seed)
	freq := gacha.Simulate(tbl, o.draws, rng)
	want := tbl.Weights.Percentages()

	fmt.Printf("%-10s %10s %10s %10s\n", "tier", "expected%", "observed%", "count")
	for _, t := range gacha.Tiers {
		fmt.Printf("%-10s %10.4f %10.4f %10d\n", t, want[t], freq.Share(t), freq.Counts[t])
	}

	st := gacha.DrawsUntil(tbl, target, o.trials, o.limit, rng)
	fmt.Printf("\ndraws until %s or better over %d trials:\n", target, o.trials)
	fmt.Printf("mean=%.2f stddev=%.2f p50=%.0f p90=%.0f p99=%.0f\n", st.Mean, st.StdDev, st.P50, st.P90, st.P99)
}
