package gacha

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// OverrideConsumer clears a pending override. It must be an atomic
// compare-and-clear: it reports true only to the one caller that removed the
// override for playerID naming tier.
type OverrideConsumer interface {
	ConsumeOverride(ctx context.Context, playerID string, tier Tier) (bool, error)
}

// DrawRecorder persists a finished draw (inventory update).
type DrawRecorder interface {
	RecordDraw(ctx context.Context, res Result) error
}

// Reason explains why a draw produced no character.
type Reason int

const (
	ReasonNone           Reason = iota
	ReasonEmptyTier             // drawn or forced tier has no catalog entries
	ReasonOverrideMisuse        // override named the craft-only tier
)

func (r Reason) String() string {
	switch r {
	case ReasonEmptyTier:
		return "empty_tier"
	case ReasonOverrideMisuse:
		return "override_misuse"
	default:
		return ""
	}
}

// Result is the outcome of one draw. When Found is false there is no
// character and Reason says why.
type Result struct {
	PlayerID         string
	Tier             Tier
	Character        Character
	Found            bool
	OverrideConsumed bool
	Reason           Reason
}

// Config wires an Engine to its collaborators. Recorder, RNG and Logger are
// optional.
type Config struct {
	Weights   WeightSource
	Modifiers ModifierSource
	Catalog   Catalog
	Overrides OverrideConsumer
	Recorder  DrawRecorder
	RNG       RandomSource
	Logger    *log.Logger
}

// Engine resolves draws. It holds no per-draw state and is safe for
// concurrent use when its collaborators are.
type Engine struct {
	base      WeightMap
	modifiers ModifierSource
	catalog   Catalog
	overrides OverrideConsumer
	recorder  DrawRecorder
	rng       RandomSource
	logger    *log.Logger
}

// New reads and validates the base table once. A table with no drawable
// tier returns a *ConfigError.
func New(cfg Config) (*Engine, error) {
	if cfg.Weights == nil || cfg.Modifiers == nil || cfg.Catalog == nil || cfg.Overrides == nil {
		return nil, errors.New("engine requires weights, modifiers, catalog and overrides")
	}
	base, err := cfg.Weights.BaseWeights()
	if err != nil {
		return nil, fmt.Errorf("load base weights: %w", err)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if cfg.RNG == nil {
		cfg.RNG = DefaultRNG()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Engine{
		base:      base,
		modifiers: cfg.Modifiers,
		catalog:   cfg.Catalog,
		overrides: cfg.Overrides,
		recorder:  cfg.Recorder,
		rng:       cfg.RNG,
		logger:    cfg.Logger,
	}, nil
}

// Base returns a copy of the base table.
func (e *Engine) Base() WeightMap { return e.base }

// Odds returns the table a chance draw for playerID would sample right now,
// along with the folded modifiers. It has no side effects.
func (e *Engine) Odds(ctx context.Context, playerID string) (Table, Adjustments, error) {
	active, err := e.modifiers.ActiveModifiers(ctx, playerID)
	if err != nil {
		return Table{}, Adjustments{}, fmt.Errorf("load modifiers for %s: %w", playerID, err)
	}
	adj := Aggregate(active, e.logger)
	return Compose(e.base, adj), adj, nil
}

// Resolve performs one draw for playerID.
//
// A pending override bypasses composition and sampling. It is consumed after
// the pick, exactly once: an empty forced tier still consumes it and yields
// no character. If another draw consumed it first, this draw falls back to
// chance.
func (e *Engine) Resolve(ctx context.Context, playerID string) (Result, error) {
	active, err := e.modifiers.ActiveModifiers(ctx, playerID)
	if err != nil {
		return Result{}, fmt.Errorf("load modifiers for %s: %w", playerID, err)
	}
	adj := Aggregate(active, e.logger)

	if adj.Override != nil {
		res, handled, err := e.resolveOverride(ctx, playerID, *adj.Override)
		if err != nil {
			return Result{}, err
		}
		if handled {
			return e.record(ctx, res)
		}
	}

	tier := Draw(Compose(e.base, adj), e.rng)
	res := Result{PlayerID: playerID, Tier: tier}
	c, err := Pick(ctx, e.catalog, tier, e.rng)
	switch {
	case err == nil:
		res.Character, res.Found = c, true
	case errors.Is(err, ErrEmptyTier), errors.Is(err, ErrCraftOnlyTier):
		res.Reason = ReasonEmptyTier
	default:
		return Result{}, err
	}
	return e.record(ctx, res)
}

func (e *Engine) resolveOverride(ctx context.Context, playerID string, o Override) (Result, bool, error) {
	res := Result{PlayerID: playerID, Tier: o.Tier}

	if !o.Tier.Valid() || o.Tier.CraftOnly() {
		e.logger.Printf("override misuse: player %s forced %s", playerID, o.Tier)
		ok, err := e.overrides.ConsumeOverride(ctx, playerID, o.Tier)
		if err != nil {
			return Result{}, false, fmt.Errorf("consume override for %s: %w", playerID, err)
		}
		res.OverrideConsumed = ok
		res.Reason = ReasonOverrideMisuse
		return res, true, nil
	}

	c, pickErr := Pick(ctx, e.catalog, o.Tier, e.rng)
	if pickErr != nil && !errors.Is(pickErr, ErrEmptyTier) {
		return Result{}, false, pickErr
	}

	ok, err := e.overrides.ConsumeOverride(ctx, playerID, o.Tier)
	if err != nil {
		return Result{}, false, fmt.Errorf("consume override for %s: %w", playerID, err)
	}
	if !ok {
		e.logger.Printf("override for player %s already consumed; drawing by chance", playerID)
		return Result{}, false, nil
	}
	res.OverrideConsumed = true
	if pickErr != nil {
		res.Reason = ReasonEmptyTier
		return res, true, nil
	}
	res.Character, res.Found = c, true
	return res, true, nil
}

func (e *Engine) record(ctx context.Context, res Result) (Result, error) {
	if e.recorder == nil || !res.Found {
		return res, nil
	}
	if err := e.recorder.RecordDraw(ctx, res); err != nil {
		return res, fmt.Errorf("record draw for %s: %w", res.PlayerID, err)
	}
	return res, nil
}
