package gacha

import (
	"context"
	"errors"
	"testing"
)

type listCatalog struct {
	chars []Character
	err   error
}

// EligibleCharacters returns every entry regardless of tier.
func (c listCatalog) EligibleCharacters(context.Context, Tier) ([]Character, error) {
	return c.chars, c.err
}

func TestPickIsUniform(t *testing.T) {
	cat := listCatalog{chars: []Character{
		{ID: "a", Tier: Epic},
		{ID: "b", Tier: Epic},
		{ID: "c", Tier: Epic},
	}}
	rng := NewSeededRNG(11)
	const n = 30_000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		c, err := Pick(context.Background(), cat, Epic, rng)
		if err != nil {
			t.Fatal(err)
		}
		counts[c.ID]++
	}
	for _, id := range []string{"a", "b", "c"} {
		if got := counts[id]; got < n/3-500 || got > n/3+500 {
			t.Fatalf("%s picked %d times out of %d; counts %v", id, got, n, counts)
		}
	}
}

func TestPickFiltersOtherTiers(t *testing.T) {
	cat := listCatalog{chars: []Character{
		{ID: "wolf", Tier: Rare},
		{ID: "mage", Tier: Epic},
		{ID: "dragon", Tier: Legendary},
	}}
	rng := NewSeededRNG(3)
	for i := 0; i < 200; i++ {
		c, err := Pick(context.Background(), cat, Epic, rng)
		if err != nil {
			t.Fatal(err)
		}
		if c.ID != "mage" {
			t.Fatalf("picked %s (%s) for Epic", c.ID, c.Tier)
		}
	}
	// nothing of the tier: no substitution
	if _, err := Pick(context.Background(), cat, Mythic, rng); !errors.Is(err, ErrEmptyTier) {
		t.Fatalf("expected ErrEmptyTier, got %v", err)
	}
}

func TestPickErrors(t *testing.T) {
	ctx := context.Background()
	rng := NewSeededRNG(1)
	evolved := listCatalog{chars: []Character{{ID: "ascended", Tier: Evolve}}}

	if _, err := Pick(ctx, evolved, Evolve, rng); !errors.Is(err, ErrCraftOnlyTier) {
		t.Fatalf("expected ErrCraftOnlyTier, got %v", err)
	}
	if _, err := Pick(ctx, listCatalog{}, Rare, rng); !errors.Is(err, ErrEmptyTier) {
		t.Fatalf("expected ErrEmptyTier, got %v", err)
	}
	if _, err := Pick(ctx, listCatalog{}, Tier(42), rng); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
	boom := errors.New("catalog down")
	if _, err := Pick(ctx, listCatalog{err: boom}, Rare, rng); !errors.Is(err, boom) {
		t.Fatalf("expected catalog error, got %v", err)
	}
}
