package partner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fairdeck/fairdeck/internal/repository"
)

// Service handles partner operations.
type Service struct {
	repo   Repository
	cards  CardLoadSource
	logger *slog.Logger
}

// NewService creates a new partner service.
func NewService(repo Repository, cards CardLoadSource, logger *slog.Logger) *Service {
	return &Service{repo: repo, cards: cards, logger: logger}
}

// defaultPair is the fixed pair created for a fresh household.
var defaultPair = Pair{
	A: Partner{
		ID:    PartnerA,
		Name:  "Partner A",
		Theme: Theme{Color: "#7c9e6f", Pattern: "solid"},
	},
	B: Partner{
		ID:    PartnerB,
		Name:  "Partner B",
		Theme: Theme{Color: "#9e6f7c", Pattern: "dots"},
	},
}

// EnsurePair returns the household's pair, creating the fixed two partners
// if they don't exist yet.
func (s *Service) EnsurePair(ctx context.Context, householdID string) (Pair, error) {
	pair := Pair{}
	for _, id := range []PartnerID{PartnerA, PartnerB} {
		p, err := s.repo.Get(ctx, householdID, id)
		if errors.Is(err, repository.ErrNotFound) {
			seed := defaultPair.Get(id)
			seed.HouseholdID = householdID
			if err := s.repo.Upsert(ctx, householdID, &seed); err != nil {
				return Pair{}, fmt.Errorf("creating partner %s: %w", id, err)
			}
			p = &seed
		} else if err != nil {
			return Pair{}, fmt.Errorf("loading partner %s: %w", id, err)
		}
		if id == PartnerA {
			pair.A = *p
		} else {
			pair.B = *p
		}
	}
	return pair, nil
}

// Get fetches one partner.
func (s *Service) Get(ctx context.Context, householdID string, id PartnerID) (*Partner, error) {
	if !id.Valid() {
		return nil, ErrInvalidPartner
	}
	p, err := s.repo.Get(ctx, householdID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("getting partner: %w", err)
	}
	return p, nil
}

// List returns both partners.
func (s *Service) List(ctx context.Context, householdID string) ([]Partner, error) {
	partners, err := s.repo.List(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("listing partners: %w", err)
	}
	return partners, nil
}

// UpdatePreferencesRequest defines preference updates. Nil fields are left
// unchanged.
type UpdatePreferencesRequest struct {
	ID            PartnerID
	Name          *string
	FavoriteCards []string
	AvoidCards    []string
	StrongSuits   []string
	Availability  Schedule
}

// UpdatePreferences updates a partner's name and preferences.
func (s *Service) UpdatePreferences(ctx context.Context, householdID string, req UpdatePreferencesRequest) (*Partner, error) {
	current, err := s.Get(ctx, householdID, req.ID)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.FavoriteCards != nil {
		updated.Preferences.FavoriteCards = req.FavoriteCards
	}
	if req.AvoidCards != nil {
		updated.Preferences.AvoidCards = req.AvoidCards
	}
	if req.StrongSuits != nil {
		updated.Preferences.StrongSuits = req.StrongSuits
	}
	if req.Availability != nil {
		updated.Preferences.Availability = req.Availability
	}

	if err := s.repo.Upsert(ctx, householdID, updated); err != nil {
		return nil, fmt.Errorf("updating partner: %w", err)
	}
	return updated, nil
}

// RecomputeStats refreshes both partners' derived stats from the card
// collection. Streaks and achievements are preserved; card counts and time
// commitments are always recomputed, never adjusted incrementally.
func (s *Service) RecomputeStats(ctx context.Context, householdID string) (Pair, error) {
	pair := Pair{}
	for _, id := range []PartnerID{PartnerA, PartnerB} {
		p, err := s.Get(ctx, householdID, id)
		if err != nil {
			return Pair{}, err
		}

		load, err := s.cards.HoldingSummary(ctx, householdID, id)
		if err != nil {
			return Pair{}, fmt.Errorf("summarizing cards for %s: %w", id, err)
		}

		p.Stats.CurrentCards = load.CardCount
		p.Stats.TotalTimeCommitment = load.TotalMinutes
		if err := s.repo.UpdateStats(ctx, householdID, id, p.Stats); err != nil {
			return Pair{}, fmt.Errorf("saving stats for %s: %w", id, err)
		}

		if id == PartnerA {
			pair.A = *p
		} else {
			pair.B = *p
		}
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "recomputed partner stats",
			"household_id", householdID,
			"a_cards", pair.A.Stats.CurrentCards,
			"b_cards", pair.B.Stats.CurrentCards)
	}
	return pair, nil
}
