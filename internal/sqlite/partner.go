package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fairdeck/fairdeck/internal/domain/partner"
	"github.com/fairdeck/fairdeck/internal/repository"
)

// PartnerRepository implements partner.Repository for SQLite
type PartnerRepository struct {
	db *DB
}

// NewPartnerRepository creates a new PartnerRepository
func NewPartnerRepository(db *DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// Upsert creates or replaces a partner row
func (r *PartnerRepository) Upsert(ctx context.Context, householdID string, p *partner.Partner) error {
	preferences, err := marshalColumn(p.Preferences)
	if err != nil {
		return err
	}
	stats, err := marshalColumn(p.Stats)
	if err != nil {
		return err
	}
	theme, err := marshalColumn(p.Theme)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO partners (household_id, id, name, avatar, preferences, stats, theme)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(household_id, id) DO UPDATE SET
			name = excluded.name,
			avatar = excluded.avatar,
			preferences = excluded.preferences,
			stats = excluded.stats,
			theme = excluded.theme
	`

	_, err = r.db.ExecContext(ctx, query,
		householdID,
		p.ID,
		p.Name,
		p.Avatar,
		orEmptyObject(preferences),
		orEmptyObject(stats),
		orEmptyObject(theme),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert partner: %w", err)
	}

	return nil
}

// Get retrieves one partner
func (r *PartnerRepository) Get(ctx context.Context, householdID string, id partner.PartnerID) (*partner.Partner, error) {
	query := `
		SELECT household_id, id, name, avatar, preferences, stats, theme
		FROM partners
		WHERE household_id = ? AND id = ?
	`

	p, err := scanPartner(r.db.QueryRowContext(ctx, query, householdID, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	return p, nil
}

// List returns the household's partners, partner-a first
func (r *PartnerRepository) List(ctx context.Context, householdID string) ([]partner.Partner, error) {
	query := `
		SELECT household_id, id, name, avatar, preferences, stats, theme
		FROM partners
		WHERE household_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	var partners []partner.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, *p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partner rows: %w", err)
	}

	return partners, nil
}

// UpdateStats overwrites a partner's derived stats
func (r *PartnerRepository) UpdateStats(ctx context.Context, householdID string, id partner.PartnerID, stats partner.Stats) error {
	col, err := marshalColumn(stats)
	if err != nil {
		return err
	}

	query := `UPDATE partners SET stats = ? WHERE household_id = ? AND id = ?`

	result, err := r.db.ExecContext(ctx, query, orEmptyObject(col), householdID, id)
	if err != nil {
		return fmt.Errorf("failed to update partner stats: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanPartner(row rowScanner) (*partner.Partner, error) {
	var p partner.Partner
	var avatar sql.NullString
	var preferences, stats, theme sql.NullString

	err := row.Scan(
		&p.HouseholdID,
		&p.ID,
		&p.Name,
		&avatar,
		&preferences,
		&stats,
		&theme,
	)
	if err != nil {
		return nil, err
	}

	p.Avatar = avatar.String
	if err := unmarshalColumn(preferences, &p.Preferences); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(stats, &p.Stats); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(theme, &p.Theme); err != nil {
		return nil, err
	}

	return &p, nil
}
