package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/xtding233/rarity-engine/internal/gacha"
)

// Catalog is an in-memory, reloadable gacha.Catalog fed from the YAML
// catalog file.
type Catalog struct {
	loader *Loader

	mu     sync.RWMutex
	byTier map[gacha.Tier][]gacha.Character
	size   int
}

// NewCatalog loads the catalog once. Use Reload after the file changes.
func NewCatalog(l *Loader) (*Catalog, error) {
	c := &Catalog{loader: l}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the catalog file. On error the previous contents stay.
func (c *Catalog) Reload() error {
	file, err := c.loader.LoadCatalog()
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}
	chars := Characters(file)
	byTier := make(map[gacha.Tier][]gacha.Character)
	for _, ch := range chars {
		byTier[ch.Tier] = append(byTier[ch.Tier], ch)
	}
	c.mu.Lock()
	c.byTier = byTier
	c.size = len(chars)
	c.mu.Unlock()
	return nil
}

// Len returns the number of characters loaded.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// EligibleCharacters returns a copy of the tier's characters.
func (c *Catalog) EligibleCharacters(ctx context.Context, tier gacha.Tier) ([]gacha.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]gacha.Character(nil), c.byTier[tier]...), nil
}

var _ gacha.Catalog = (*Catalog)(nil)
