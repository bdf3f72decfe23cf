package game

import (
	"context"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/negotiation"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
)

// Repository persists game session metadata (not the embedded card or
// negotiation lists, which live in their own stores).
type Repository interface {
	Save(ctx context.Context, householdID string, s *State) error
	GetActive(ctx context.Context, householdID string) (*State, error)
}

// CardStore is the slice of card persistence the controller needs.
type CardStore interface {
	List(ctx context.Context, householdID string, opts card.ListOptions) ([]card.Card, error)
	Update(ctx context.Context, householdID string, c *card.Card) error
	AppendHistory(ctx context.Context, householdID, cardID string, entry card.HistoryEntry) error
}

// NegotiationStore persists negotiations.
type NegotiationStore interface {
	Save(ctx context.Context, householdID string, n *negotiation.Negotiation) error
	ListByGame(ctx context.Context, householdID, gameID string) ([]negotiation.Negotiation, error)
}

// PartnerDirectory supplies the fixed pair and recomputes derived stats.
// Satisfied by the partner service.
type PartnerDirectory interface {
	EnsurePair(ctx context.Context, householdID string) (partner.Pair, error)
	RecomputeStats(ctx context.Context, householdID string) (partner.Pair, error)
}
