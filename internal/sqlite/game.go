package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fairdeck/fairdeck/internal/domain/game"
	"github.com/fairdeck/fairdeck/internal/repository"
)

// GameRepository implements game.Repository for SQLite.
// Only session metadata is stored here; cards and negotiations live in
// their own tables and are rejoined on load.
type GameRepository struct {
	db *DB
}

// NewGameRepository creates a new GameRepository
func NewGameRepository(db *DB) *GameRepository {
	return &GameRepository{db: db}
}

// Save upserts the game row. Saving an active game deactivates any other
// game in the household, keeping at most one active session.
func (r *GameRepository) Save(ctx context.Context, householdID string, s *game.State) error {
	rules, err := marshalColumn(s.Rules)
	if err != nil {
		return err
	}
	dealHistory, err := marshalColumn(s.DealHistory)
	if err != nil {
		return err
	}

	if s.IsActive {
		deactivate := `UPDATE games SET is_active = 0 WHERE household_id = ? AND id != ?`
		if _, err := r.db.ExecContext(ctx, deactivate, householdID, s.ID); err != nil {
			return fmt.Errorf("failed to deactivate previous games: %w", err)
		}
	}

	query := `
		INSERT INTO games (id, household_id, deal_mode, rules, is_active, deal_history, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			deal_mode = excluded.deal_mode,
			rules = excluded.rules,
			is_active = excluded.is_active,
			deal_history = excluded.deal_history,
			modified_at = excluded.modified_at
	`

	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		householdID,
		s.DealMode,
		orEmptyObject(rules),
		s.IsActive,
		dealHistory,
		s.CreatedAt,
		s.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// GetActive returns the household's active game metadata. Cards, partners
// and negotiations are not loaded; the caller hydrates them.
func (r *GameRepository) GetActive(ctx context.Context, householdID string) (*game.State, error) {
	query := `
		SELECT id, household_id, deal_mode, rules, is_active, deal_history, created_at, modified_at
		FROM games
		WHERE household_id = ? AND is_active = 1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s game.State
	var rules, dealHistory sql.NullString

	err := r.db.QueryRowContext(ctx, query, householdID).Scan(
		&s.ID,
		&s.HouseholdID,
		&s.DealMode,
		&rules,
		&s.IsActive,
		&dealHistory,
		&s.CreatedAt,
		&s.ModifiedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active game: %w", err)
	}

	if err := unmarshalColumn(rules, &s.Rules); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(dealHistory, &s.DealHistory); err != nil {
		return nil, err
	}

	return &s, nil
}
