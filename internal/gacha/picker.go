package gacha

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyTier means the catalog holds no character for the tier.
	ErrEmptyTier = errors.New("no eligible characters for tier")
	// ErrCraftOnlyTier means a draw named the craft-only tier.
	ErrCraftOnlyTier = errors.New("tier is craft-only")
)

// Character is a catalog entry. The catalog owns it; the engine only reads it.
type Character struct {
	ID    string
	Name  string
	Tier  Tier
	Value int
}

// Catalog lists the characters eligible for a tier.
type Catalog interface {
	EligibleCharacters(ctx context.Context, tier Tier) ([]Character, error)
}

// Pick selects one character of tier uniformly at random.
// It never substitutes another tier.
func Pick(ctx context.Context, cat Catalog, tier Tier, rng RandomSource) (Character, error) {
	if !tier.Valid() {
		return Character{}, fmt.Errorf("pick %d: %w", tier, ErrUnknownTier)
	}
	if tier.CraftOnly() {
		return Character{}, fmt.Errorf("pick %s: %w", tier, ErrCraftOnlyTier)
	}
	chars, err := cat.EligibleCharacters(ctx, tier)
	if err != nil {
		return Character{}, fmt.Errorf("list %s characters: %w", tier, err)
	}
	// the catalog may hand back mixed tiers; only exact matches count
	eligible := chars[:0:0]
	for _, c := range chars {
		if c.Tier == tier {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return Character{}, fmt.Errorf("pick %s: %w", tier, ErrEmptyTier)
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return eligible[rng.Int64N(int64(len(eligible)))], nil
}
