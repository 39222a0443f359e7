package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/rarity-engine/internal/gacha"
)

// Paths helper for weight tables and the catalog.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/data
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "tables", "default.yaml")
}
func (p Paths) PoolPath(pool string) string {
	return filepath.Join(p.BaseDir, "tables", pool+".yaml")
}
func (p Paths) CatalogPath() string {
	return filepath.Join(p.BaseDir, "catalog", "characters.yaml")
}

// Loader reads YAML data files and merges default → pool weight tables.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: pool name, "" for default only
}

// NewLoader creates a data loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Paths returns the file layout the loader reads from.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads the default table and, when pool is set, overlays the
// pool's table on top. The result is validated but not converted.
func (l *Loader) LoadMerged(pool string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[pool]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML[RawConfig](l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	var poolCfg RawConfig
	if pool != "" {
		poolCfg, err = readYAML[RawConfig](l.paths.PoolPath(pool)) // pool file optional
		if err != nil {
			return RawConfig{}, fmt.Errorf("read pool %s: %w", pool, err)
		}
	}
	// check each file before merging collapses case variants of a tier
	if dups := duplicateTierKeys(defCfg); len(dups) > 0 {
		return RawConfig{}, fmt.Errorf("read default: %w", &gacha.ConfigError{Problems: dups})
	}
	if dups := duplicateTierKeys(poolCfg); len(dups) > 0 {
		return RawConfig{}, fmt.Errorf("read pool %s: %w", pool, &gacha.ConfigError{Problems: dups})
	}
	merged := mergeRaw(defCfg, poolCfg)
	if err := ValidateRaw(merged); err != nil {
		return RawConfig{}, err
	}

	l.mu.Lock()
	l.cache[pool] = merged
	l.mu.Unlock()
	return merged, nil
}

// LoadCatalog reads and validates the character catalog. It is never cached.
func (l *Loader) LoadCatalog() (CatalogFile, error) {
	cat, err := readYAML[CatalogFile](l.paths.CatalogPath())
	if err != nil {
		return CatalogFile{}, fmt.Errorf("read catalog: %w", err)
	}
	if err := ValidateCatalog(cat); err != nil {
		return CatalogFile{}, err
	}
	return cat, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file. Missing files return the zero value, no error.
func readYAML[T any](path string) (T, error) {
	var out T
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return out, err
	}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return out, nil
}

// mergeRaw overlays b onto a: b's scalars win when set, and b's weights
// replace a's tier by tier.
func mergeRaw(a, b RawConfig) RawConfig {
	out := RawConfig{
		Version: a.Version,
		Notes:   a.Notes,
		Weights: make(map[string]float64, len(a.Weights)+len(b.Weights)),
	}
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	for k, v := range a.Weights {
		out.Weights[canonicalTier(k)] = v
	}
	for k, v := range b.Weights {
		out.Weights[canonicalTier(k)] = v
	}
	return out
}

// canonicalTier spells known tier names the way gacha.Tier does, so "rare"
// in a pool file replaces "Rare" from the default table.
func canonicalTier(name string) string {
	if t, err := gacha.ParseTier(name); err == nil {
		return t.String()
	}
	return name
}
