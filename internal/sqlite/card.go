package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
	"github.com/fairdeck/fairdeck/internal/repository"
)

// CardRepository implements card.Repository for SQLite
type CardRepository struct {
	db *DB
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts a new card along with any history it already carries
func (r *CardRepository) Create(ctx context.Context, householdID string, c *card.Card) error {
	title, err := marshalColumn(c.Title)
	if err != nil {
		return err
	}
	description, err := marshalColumn(c.Description)
	if err != nil {
		return err
	}
	details, err := marshalColumn(c.Details)
	if err != nil {
		return err
	}
	customFields, err := marshalColumn(c.CustomFields)
	if err != nil {
		return err
	}
	tags, err := marshalColumn(c.Metadata.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cards (
			id, household_id, category, title, description, details,
			holder, status, custom_fields, tags, is_custom, is_active,
			difficulty, frequency, time_estimate, created_at, modified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		c.ID,
		householdID,
		c.Category,
		orEmptyObject(title),
		orEmptyObject(description),
		orEmptyObject(details),
		holderValue(c.Holder),
		c.Status,
		customFields,
		tags,
		c.Metadata.IsCustom,
		c.Metadata.IsActive,
		c.Metadata.Difficulty,
		c.Metadata.Frequency,
		c.Metadata.TimeEstimate,
		c.Metadata.CreatedAt,
		c.Metadata.ModifiedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create card: %w", err)
	}

	for _, entry := range c.History {
		if err := r.AppendHistory(ctx, householdID, c.ID, entry); err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves a card by ID, including its full history
func (r *CardRepository) Get(ctx context.Context, householdID, id string) (*card.Card, error) {
	query := `
		SELECT
			id, household_id, category, title, description, details,
			holder, status, custom_fields, tags, is_custom, is_active,
			difficulty, frequency, time_estimate, created_at, modified_at
		FROM cards
		WHERE id = ? AND household_id = ?
	`

	c, err := scanCard(r.db.QueryRowContext(ctx, query, id, householdID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	history, err := r.getHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.History = history

	return c, nil
}

// Update overwrites a card's mutable columns
func (r *CardRepository) Update(ctx context.Context, householdID string, c *card.Card) error {
	title, err := marshalColumn(c.Title)
	if err != nil {
		return err
	}
	description, err := marshalColumn(c.Description)
	if err != nil {
		return err
	}
	details, err := marshalColumn(c.Details)
	if err != nil {
		return err
	}
	customFields, err := marshalColumn(c.CustomFields)
	if err != nil {
		return err
	}
	tags, err := marshalColumn(c.Metadata.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE cards
		SET category = ?, title = ?, description = ?, details = ?,
		    holder = ?, status = ?, custom_fields = ?, tags = ?,
		    is_custom = ?, is_active = ?, difficulty = ?, frequency = ?,
		    time_estimate = ?, modified_at = ?
		WHERE id = ? AND household_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		c.Category,
		orEmptyObject(title),
		orEmptyObject(description),
		orEmptyObject(details),
		holderValue(c.Holder),
		c.Status,
		customFields,
		tags,
		c.Metadata.IsCustom,
		c.Metadata.IsActive,
		c.Metadata.Difficulty,
		c.Metadata.Frequency,
		c.Metadata.TimeEstimate,
		c.Metadata.ModifiedAt,
		c.ID,
		householdID,
	)

	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
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

// Delete removes a card; its history rows cascade
func (r *CardRepository) Delete(ctx context.Context, householdID, id string) error {
	query := `DELETE FROM cards WHERE id = ? AND household_id = ?`

	result, err := r.db.ExecContext(ctx, query, id, householdID)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
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

// List returns cards matching the given options, ordered by creation time.
// History is not loaded; use Get for the full record.
func (r *CardRepository) List(ctx context.Context, householdID string, opts card.ListOptions) ([]card.Card, error) {
	query := `
		SELECT
			id, household_id, category, title, description, details,
			holder, status, custom_fields, tags, is_custom, is_active,
			difficulty, frequency, time_estimate, created_at, modified_at
		FROM cards
		WHERE household_id = ?
	`

	args := []interface{}{householdID}
	conditions := []string{}

	if opts.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, *opts.Category)
	}
	if opts.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *opts.Status)
	}
	if opts.Holder != nil {
		conditions = append(conditions, "holder = ?")
		args = append(args, *opts.Holder)
	}
	if opts.Unassigned {
		conditions = append(conditions, "holder IS NULL")
	}
	if opts.ActiveOnly {
		conditions = append(conditions, "is_active = 1")
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at ASC, id ASC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []card.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}

	return cards, nil
}

// AppendHistory records one card history event
func (r *CardRepository) AppendHistory(ctx context.Context, householdID, cardID string, entry card.HistoryEntry) error {
	details, err := marshalColumn(entry.Details)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO card_history (id, household_id, card_id, action, performed_by, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		householdID,
		cardID,
		entry.Action,
		entry.PerformedBy,
		details,
		entry.Timestamp,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		if isUniqueViolation(err) {
			// Entry already recorded
			return nil
		}
		return fmt.Errorf("failed to append card history: %w", err)
	}

	return nil
}

// HoldingSummary aggregates a partner's current card count and time commitment
func (r *CardRepository) HoldingSummary(ctx context.Context, householdID string, id partner.PartnerID) (partner.HoldingSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(time_estimate), 0)
		FROM cards
		WHERE household_id = ? AND holder = ?
	`

	var summary partner.HoldingSummary
	err := r.db.QueryRowContext(ctx, query, householdID, id).Scan(&summary.CardCount, &summary.TotalMinutes)
	if err != nil {
		return partner.HoldingSummary{}, fmt.Errorf("failed to summarize holdings: %w", err)
	}

	return summary, nil
}

func (r *CardRepository) getHistory(ctx context.Context, cardID string) ([]card.HistoryEntry, error) {
	query := `
		SELECT id, action, performed_by, details, created_at
		FROM card_history
		WHERE card_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card history: %w", err)
	}
	defer rows.Close()

	var history []card.HistoryEntry
	for rows.Next() {
		var entry card.HistoryEntry
		var details sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.PerformedBy, &details, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if err := unmarshalColumn(details, &entry.Details); err != nil {
			return nil, err
		}
		history = append(history, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return history, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCard(row rowScanner) (*card.Card, error) {
	var c card.Card
	var title, description, details, customFields, tags sql.NullString
	var holder sql.NullString

	err := row.Scan(
		&c.ID,
		&c.HouseholdID,
		&c.Category,
		&title,
		&description,
		&details,
		&holder,
		&c.Status,
		&customFields,
		&tags,
		&c.Metadata.IsCustom,
		&c.Metadata.IsActive,
		&c.Metadata.Difficulty,
		&c.Metadata.Frequency,
		&c.Metadata.TimeEstimate,
		&c.Metadata.CreatedAt,
		&c.Metadata.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalColumn(title, &c.Title); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(description, &c.Description); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(details, &c.Details); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(customFields, &c.CustomFields); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(tags, &c.Metadata.Tags); err != nil {
		return nil, err
	}
	if holder.Valid {
		h := partner.PartnerID(holder.String)
		c.Holder = &h
	}

	return &c, nil
}

func holderValue(holder *partner.PartnerID) interface{} {
	if holder == nil {
		return nil
	}
	return string(*holder)
}

// orEmptyObject keeps NOT NULL JSON columns populated when every localized
// field is blank.
func orEmptyObject(col sql.NullString) string {
	if col.Valid {
		return col.String
	}
	return "{}"
}
