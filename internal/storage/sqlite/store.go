package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xtding233/rarity-engine/internal/gacha"
	"github.com/xtding233/rarity-engine/internal/storage/sqlite/migrations"
)

// Store is the SQLite-backed draw state: modifier sources, pending
// overrides and the draw log. It implements gacha.ModifierSource,
// gacha.OverrideConsumer and gacha.DrawRecorder.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite store at the provided path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) check(ctx context.Context, playerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(playerID) == "" {
		return fmt.Errorf("player id is required")
	}
	return nil
}

// ActiveModifiers returns unexpired timed effects, set bonuses, equipment
// bonuses and the pending override for playerID.
func (s *Store) ActiveModifiers(ctx context.Context, playerID string) (gacha.Active, error) {
	if err := s.check(ctx, playerID); err != nil {
		return gacha.Active{}, err
	}
	var active gacha.Active

	timed, err := s.queryModifiers(ctx, gacha.SourceTimed,
		`SELECT kind, tier, tier_from, tier_to, magnitude FROM timed_effects
		 WHERE player_id = ? AND expires_at > ? ORDER BY id`,
		playerID, s.now().UTC().UnixMilli())
	if err != nil {
		return gacha.Active{}, fmt.Errorf("query timed effects: %w", err)
	}
	sets, err := s.queryModifiers(ctx, gacha.SourceSet,
		`SELECT kind, tier, tier_from, tier_to, magnitude FROM set_bonuses
		 WHERE player_id = ? ORDER BY set_id`, playerID)
	if err != nil {
		return gacha.Active{}, fmt.Errorf("query set bonuses: %w", err)
	}
	gear, err := s.queryModifiers(ctx, gacha.SourceEquipment,
		`SELECT kind, '', '', '', magnitude FROM equipment
		 WHERE player_id = ? ORDER BY slot`, playerID)
	if err != nil {
		return gacha.Active{}, fmt.Errorf("query equipment: %w", err)
	}
	active.Modifiers = append(append(timed, sets...), gear...)

	var tierName string
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT tier FROM pending_overrides WHERE player_id = ?`, playerID).Scan(&tierName)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return gacha.Active{}, fmt.Errorf("query override: %w", err)
	default:
		active.Override = &gacha.Override{Tier: decodeTier(tierName)}
	}
	return active, nil
}

func (s *Store) queryModifiers(ctx context.Context, src gacha.Source, query string, args ...any) ([]gacha.Modifier, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []gacha.Modifier
	for rows.Next() {
		var kind, tier, from, to string
		var magnitude float64
		if err := rows.Scan(&kind, &tier, &from, &to, &magnitude); err != nil {
			return nil, err
		}
		// rows that fail to parse are passed on with a zero Kind so the
		// aggregator drops and logs them
		k, _ := gacha.ParseKind(kind)
		m := gacha.Modifier{Source: src, Kind: k, Magnitude: magnitude}
		switch k {
		case gacha.KindTierBoost, gacha.KindTierMega, gacha.KindMinimumTier:
			m.Tier = decodeTier(tier)
		case gacha.KindRangeBoost, gacha.KindRangeMega:
			m.From, m.To = decodeTier(from), decodeTier(to)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ConsumeOverride deletes playerID's pending override if it still names
// tier. Tier names match the way decodeTier reads them (trimmed, any case).
// Only the caller whose delete removed the row gets true.
// An invalid tier clears whatever override the player has, since it could
// only have come from an unreadable row.
func (s *Store) ConsumeOverride(ctx context.Context, playerID string, tier gacha.Tier) (bool, error) {
	if err := s.check(ctx, playerID); err != nil {
		return false, err
	}
	var (
		res sql.Result
		err error
	)
	if tier.Valid() {
		res, err = s.sqlDB.ExecContext(ctx,
			`DELETE FROM pending_overrides WHERE player_id = ? AND TRIM(tier) = ? COLLATE NOCASE`, playerID, tier.String())
	} else {
		res, err = s.sqlDB.ExecContext(ctx,
			`DELETE FROM pending_overrides WHERE player_id = ?`, playerID)
	}
	if err != nil {
		return false, fmt.Errorf("delete override: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete override: %w", err)
	}
	return n == 1, nil
}

// RecordDraw appends a finished draw to the player's inventory log.
func (s *Store) RecordDraw(ctx context.Context, r gacha.Result) error {
	if err := s.check(ctx, r.PlayerID); err != nil {
		return err
	}
	if !r.Found {
		return fmt.Errorf("draw has no character")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO draws (player_id, character_id, tier, override_used, drawn_at) VALUES (?, ?, ?, ?, ?)`,
		r.PlayerID, r.Character.ID, r.Tier.String(), boolToInt(r.OverrideConsumed), s.now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert draw: %w", err)
	}
	return nil
}

// InventoryEntry is one recorded draw.
type InventoryEntry struct {
	CharacterID  string
	Tier         gacha.Tier
	OverrideUsed bool
	DrawnAt      time.Time
}

// Inventory lists a player's recorded draws, oldest first.
func (s *Store) Inventory(ctx context.Context, playerID string) ([]InventoryEntry, error) {
	if err := s.check(ctx, playerID); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT character_id, tier, override_used, drawn_at FROM draws WHERE player_id = ? ORDER BY id`, playerID)
	if err != nil {
		return nil, fmt.Errorf("query draws: %w", err)
	}
	defer rows.Close()

	var out []InventoryEntry
	for rows.Next() {
		var (
			e        InventoryEntry
			tier     string
			override int
			drawnAt  int64
		)
		if err := rows.Scan(&e.CharacterID, &tier, &override, &drawnAt); err != nil {
			return nil, fmt.Errorf("scan draw: %w", err)
		}
		e.Tier = decodeTier(tier)
		e.OverrideUsed = override != 0
		e.DrawnAt = time.UnixMilli(drawnAt).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// decodeTier maps a stored tier name to a Tier. Empty or unknown names give
// an invalid tier so validation drops the row instead of guessing.
func decodeTier(name string) gacha.Tier {
	t, err := gacha.ParseTier(name)
	if err != nil {
		return gacha.Tier(-1)
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var (
	_ gacha.ModifierSource   = (*Store)(nil)
	_ gacha.OverrideConsumer = (*Store)(nil)
	_ gacha.DrawRecorder     = (*Store)(nil)
)
