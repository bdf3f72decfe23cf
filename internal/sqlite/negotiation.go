package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fairdeck/fairdeck/internal/domain/negotiation"
	"github.com/fairdeck/fairdeck/internal/repository"
)

// NegotiationRepository implements the negotiation store interfaces for SQLite
type NegotiationRepository struct {
	db *DB
}

// NewNegotiationRepository creates a new NegotiationRepository
func NewNegotiationRepository(db *DB) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

// Save upserts the negotiation row and records any events not yet persisted.
// Events are append-only, so replays of already stored events are ignored.
func (r *NegotiationRepository) Save(ctx context.Context, householdID string, n *negotiation.Negotiation) error {
	cardIDs, err := marshalColumn(n.CardIDs)
	if err != nil {
		return err
	}
	proposal, err := marshalColumn(n.Proposal)
	if err != nil {
		return err
	}
	priorStatuses, err := marshalColumn(n.PriorStatuses)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO negotiations (
			id, household_id, game_id, initiator, card_ids, proposal,
			status, prior_statuses, created_at, modified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			card_ids = excluded.card_ids,
			proposal = excluded.proposal,
			status = excluded.status,
			prior_statuses = excluded.prior_statuses,
			modified_at = excluded.modified_at
	`

	_, err = r.db.ExecContext(ctx, query,
		n.ID,
		householdID,
		nullIfEmpty(n.GameID),
		n.Initiator,
		orEmptyObject(cardIDs),
		orEmptyObject(proposal),
		n.Status,
		priorStatuses,
		n.CreatedAt,
		n.ModifiedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to save negotiation: %w", err)
	}

	for _, event := range n.History {
		if err := r.appendEvent(ctx, householdID, n.ID, event); err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves a negotiation by ID, including its event history
func (r *NegotiationRepository) Get(ctx context.Context, householdID, id string) (*negotiation.Negotiation, error) {
	query := `
		SELECT id, household_id, game_id, initiator, card_ids, proposal,
		       status, prior_statuses, created_at, modified_at
		FROM negotiations
		WHERE id = ? AND household_id = ?
	`

	n, err := scanNegotiation(r.db.QueryRowContext(ctx, query, id, householdID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get negotiation: %w", err)
	}

	history, err := r.getEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	n.History = history

	return n, nil
}

// ListByGame returns a game's negotiations in creation order, with events
func (r *NegotiationRepository) ListByGame(ctx context.Context, householdID, gameID string) ([]negotiation.Negotiation, error) {
	query := `
		SELECT id, household_id, game_id, initiator, card_ids, proposal,
		       status, prior_statuses, created_at, modified_at
		FROM negotiations
		WHERE household_id = ? AND game_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, householdID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list negotiations: %w", err)
	}
	defer rows.Close()

	var negotiations []negotiation.Negotiation
	for rows.Next() {
		n, err := scanNegotiation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan negotiation: %w", err)
		}
		negotiations = append(negotiations, *n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating negotiation rows: %w", err)
	}

	for i := range negotiations {
		history, err := r.getEvents(ctx, negotiations[i].ID)
		if err != nil {
			return nil, err
		}
		negotiations[i].History = history
	}

	return negotiations, nil
}

// HasOpenNegotiationForCard reports whether any pending or countered
// negotiation in the household references the card
func (r *NegotiationRepository) HasOpenNegotiationForCard(ctx context.Context, householdID, cardID string) (bool, error) {
	query := `
		SELECT card_ids
		FROM negotiations
		WHERE household_id = ? AND status IN ('pending', 'counter')
	`

	rows, err := r.db.QueryContext(ctx, query, householdID)
	if err != nil {
		return false, fmt.Errorf("failed to check open negotiations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var col sql.NullString
		if err := rows.Scan(&col); err != nil {
			return false, fmt.Errorf("failed to scan card ids: %w", err)
		}
		var ids []string
		if err := unmarshalColumn(col, &ids); err != nil {
			return false, err
		}
		for _, id := range ids {
			if id == cardID {
				return true, nil
			}
		}
	}

	if err = rows.Err(); err != nil {
		return false, fmt.Errorf("error iterating negotiation rows: %w", err)
	}

	return false, nil
}

func (r *NegotiationRepository) appendEvent(ctx context.Context, householdID, negotiationID string, event negotiation.Event) error {
	details, err := marshalColumn(event.Details)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO negotiation_events (id, household_id, negotiation_id, type, actor, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		householdID,
		negotiationID,
		event.Type,
		event.Actor,
		details,
		event.Timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Event already recorded
			return nil
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to append negotiation event: %w", err)
	}

	return nil
}

func (r *NegotiationRepository) getEvents(ctx context.Context, negotiationID string) ([]negotiation.Event, error) {
	query := `
		SELECT id, type, actor, details, created_at
		FROM negotiation_events
		WHERE negotiation_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, negotiationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get negotiation events: %w", err)
	}
	defer rows.Close()

	var events []negotiation.Event
	for rows.Next() {
		var event negotiation.Event
		var details sql.NullString
		if err := rows.Scan(&event.ID, &event.Type, &event.Actor, &details, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan negotiation event: %w", err)
		}
		if err := unmarshalColumn(details, &event.Details); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

func scanNegotiation(row rowScanner) (*negotiation.Negotiation, error) {
	var n negotiation.Negotiation
	var gameID sql.NullString
	var cardIDs, proposal, priorStatuses sql.NullString

	err := row.Scan(
		&n.ID,
		&n.HouseholdID,
		&gameID,
		&n.Initiator,
		&cardIDs,
		&proposal,
		&n.Status,
		&priorStatuses,
		&n.CreatedAt,
		&n.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}

	n.GameID = gameID.String
	if err := unmarshalColumn(cardIDs, &n.CardIDs); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(proposal, &n.Proposal); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(priorStatuses, &n.PriorStatuses); err != nil {
		return nil, err
	}

	return &n, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
