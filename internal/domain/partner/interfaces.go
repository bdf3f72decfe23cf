package partner

import "context"

// Repository provides persistence for partners.
type Repository interface {
	Upsert(ctx context.Context, householdID string, p *Partner) error
	Get(ctx context.Context, householdID string, id PartnerID) (*Partner, error)
	List(ctx context.Context, householdID string) ([]Partner, error)
	UpdateStats(ctx context.Context, householdID string, id PartnerID, stats Stats) error
}

// HoldingSummary aggregates a partner's current card load.
type HoldingSummary struct {
	CardCount    int
	TotalMinutes int
}

// CardLoadSource reports per-partner card load from the card collection.
// Satisfied by the card repository without this package importing it.
type CardLoadSource interface {
	HoldingSummary(ctx context.Context, householdID string, id PartnerID) (HoldingSummary, error)
}
