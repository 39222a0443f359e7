package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xtding233/rarity-engine/internal/gacha"
)

func encodeTiers(m gacha.Modifier) (tier, from, to string) {
	switch m.Kind {
	case gacha.KindTierBoost, gacha.KindTierMega, gacha.KindMinimumTier:
		return m.Tier.String(), "", ""
	case gacha.KindRangeBoost, gacha.KindRangeMega:
		return "", m.From.String(), m.To.String()
	}
	return "", "", ""
}

// AddTimedEffect stores a consumable effect that stops applying at expiresAt.
func (s *Store) AddTimedEffect(ctx context.Context, playerID string, m gacha.Modifier, expiresAt time.Time) error {
	if err := s.check(ctx, playerID); err != nil {
		return err
	}
	m.Source = gacha.SourceTimed
	if err := m.Validate(); err != nil {
		return err
	}
	tier, from, to := encodeTiers(m)
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO timed_effects (player_id, kind, tier, tier_from, tier_to, magnitude, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		playerID, m.Kind.String(), tier, from, to, m.Magnitude, expiresAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert timed effect: %w", err)
	}
	return nil
}

// AddSetBonus stores the permanent bonus for a completed set. Completing the
// same set again replaces its bonus.
func (s *Store) AddSetBonus(ctx context.Context, playerID, setID string, m gacha.Modifier) error {
	if err := s.check(ctx, playerID); err != nil {
		return err
	}
	if strings.TrimSpace(setID) == "" {
		return fmt.Errorf("set id is required")
	}
	m.Source = gacha.SourceSet
	if err := m.Validate(); err != nil {
		return err
	}
	tier, from, to := encodeTiers(m)
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO set_bonuses (player_id, set_id, kind, tier, tier_from, tier_to, magnitude)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (player_id, set_id) DO UPDATE SET
		   kind = excluded.kind, tier = excluded.tier, tier_from = excluded.tier_from,
		   tier_to = excluded.tier_to, magnitude = excluded.magnitude`,
		playerID, setID, m.Kind.String(), tier, from, to, m.Magnitude)
	if err != nil {
		return fmt.Errorf("upsert set bonus: %w", err)
	}
	return nil
}

// Equip puts itemID into slot with a rarity bonus of magnitude, replacing
// whatever was there.
func (s *Store) Equip(ctx context.Context, playerID, slot, itemID string, magnitude float64) error {
	if err := s.check(ctx, playerID); err != nil {
		return err
	}
	if strings.TrimSpace(slot) == "" || strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("slot and item id are required")
	}
	m := gacha.GlobalPercent(gacha.SourceEquipment, magnitude)
	if err := m.Validate(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO equipment (player_id, slot, item_id, kind, magnitude) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (player_id, slot) DO UPDATE SET
		   item_id = excluded.item_id, kind = excluded.kind, magnitude = excluded.magnitude`,
		playerID, slot, itemID, m.Kind.String(), m.Magnitude)
	if err != nil {
		return fmt.Errorf("upsert equipment: %w", err)
	}
	return nil
}

// Unequip empties slot.
func (s *Store) Unequip(ctx context.Context, playerID, slot string) error {
	if err := s.check(ctx, playerID); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM equipment WHERE player_id = ? AND slot = ?`, playerID, slot); err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	return nil
}

// GrantOverride sets playerID's pending override, replacing any earlier one.
func (s *Store) GrantOverride(ctx context.Context, playerID string, tier gacha.Tier) error {
	if err := s.check(ctx, playerID); err != nil {
		return err
	}
	if !tier.Valid() {
		return fmt.Errorf("grant override: %w", gacha.ErrUnknownTier)
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO pending_overrides (player_id, tier, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (player_id) DO UPDATE SET tier = excluded.tier, created_at = excluded.created_at`,
		playerID, tier.String(), s.now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert override: %w", err)
	}
	return nil
}

// PurgeExpired deletes timed effects that have expired and reports how many.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM timed_effects WHERE expires_at <= ?`, s.now().UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purge timed effects: %w", err)
	}
	return res.RowsAffected()
}
