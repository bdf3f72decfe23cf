package card

import "context"

// Repository provides persistence for cards.
type Repository interface {
	Create(ctx context.Context, householdID string, c *Card) error
	Get(ctx context.Context, householdID, id string) (*Card, error)
	Update(ctx context.Context, householdID string, c *Card) error
	Delete(ctx context.Context, householdID, id string) error
	List(ctx context.Context, householdID string, opts ListOptions) ([]Card, error)
	AppendHistory(ctx context.Context, householdID, cardID string, entry HistoryEntry) error
}

// OpenNegotiationChecker reports whether a card is referenced by an open
// negotiation. Satisfied by the negotiation repository.
type OpenNegotiationChecker interface {
	HasOpenNegotiationForCard(ctx context.Context, householdID, cardID string) (bool, error)
}
