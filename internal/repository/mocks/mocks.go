package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/game"
	"github.com/fairdeck/fairdeck/internal/domain/negotiation"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
)

// CardRepository is a mock for card.Repository.
type CardRepository struct {
	mock.Mock
}

func (m *CardRepository) Create(ctx context.Context, householdID string, c *card.Card) error {
	args := m.Called(ctx, householdID, c)
	return args.Error(0)
}

func (m *CardRepository) Get(ctx context.Context, householdID, id string) (*card.Card, error) {
	args := m.Called(ctx, householdID, id)
	if c, ok := args.Get(0).(*card.Card); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardRepository) Update(ctx context.Context, householdID string, c *card.Card) error {
	args := m.Called(ctx, householdID, c)
	return args.Error(0)
}

func (m *CardRepository) Delete(ctx context.Context, householdID, id string) error {
	args := m.Called(ctx, householdID, id)
	return args.Error(0)
}

func (m *CardRepository) List(ctx context.Context, householdID string, opts card.ListOptions) ([]card.Card, error) {
	args := m.Called(ctx, householdID, opts)
	if list, ok := args.Get(0).([]card.Card); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardRepository) AppendHistory(ctx context.Context, householdID, cardID string, entry card.HistoryEntry) error {
	args := m.Called(ctx, householdID, cardID, entry)
	return args.Error(0)
}

func (m *CardRepository) HoldingSummary(ctx context.Context, householdID string, id partner.PartnerID) (partner.HoldingSummary, error) {
	args := m.Called(ctx, householdID, id)
	if sum, ok := args.Get(0).(partner.HoldingSummary); ok {
		return sum, args.Error(1)
	}
	return partner.HoldingSummary{}, args.Error(1)
}

// PartnerRepository is a mock for partner.Repository.
type PartnerRepository struct {
	mock.Mock
}

func (m *PartnerRepository) Upsert(ctx context.Context, householdID string, p *partner.Partner) error {
	args := m.Called(ctx, householdID, p)
	return args.Error(0)
}

func (m *PartnerRepository) Get(ctx context.Context, householdID string, id partner.PartnerID) (*partner.Partner, error) {
	args := m.Called(ctx, householdID, id)
	if p, ok := args.Get(0).(*partner.Partner); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartnerRepository) List(ctx context.Context, householdID string) ([]partner.Partner, error) {
	args := m.Called(ctx, householdID)
	if list, ok := args.Get(0).([]partner.Partner); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartnerRepository) UpdateStats(ctx context.Context, householdID string, id partner.PartnerID, stats partner.Stats) error {
	args := m.Called(ctx, householdID, id, stats)
	return args.Error(0)
}

// NegotiationRepository is a mock for the negotiation store interfaces.
type NegotiationRepository struct {
	mock.Mock
}

func (m *NegotiationRepository) Save(ctx context.Context, householdID string, n *negotiation.Negotiation) error {
	args := m.Called(ctx, householdID, n)
	return args.Error(0)
}

func (m *NegotiationRepository) Get(ctx context.Context, householdID, id string) (*negotiation.Negotiation, error) {
	args := m.Called(ctx, householdID, id)
	if n, ok := args.Get(0).(*negotiation.Negotiation); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NegotiationRepository) ListByGame(ctx context.Context, householdID, gameID string) ([]negotiation.Negotiation, error) {
	args := m.Called(ctx, householdID, gameID)
	if list, ok := args.Get(0).([]negotiation.Negotiation); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NegotiationRepository) HasOpenNegotiationForCard(ctx context.Context, householdID, cardID string) (bool, error) {
	args := m.Called(ctx, householdID, cardID)
	return args.Bool(0), args.Error(1)
}

// GameRepository is a mock for game.Repository.
type GameRepository struct {
	mock.Mock
}

func (m *GameRepository) Save(ctx context.Context, householdID string, s *game.State) error {
	args := m.Called(ctx, householdID, s)
	return args.Error(0)
}

func (m *GameRepository) GetActive(ctx context.Context, householdID string) (*game.State, error) {
	args := m.Called(ctx, householdID)
	if s, ok := args.Get(0).(*game.State); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
