package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fairdeck/fairdeck/internal/domain/partner"
	"github.com/fairdeck/fairdeck/internal/repository"
	"github.com/google/uuid"
)

// Service handles card operations.
type Service struct {
	repo         Repository
	negotiations OpenNegotiationChecker
	logger       *slog.Logger
}

// NewService creates a new card service. The negotiation checker may be nil
// when delete protection is not needed (e.g. in isolated tests).
func NewService(repo Repository, negotiations OpenNegotiationChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, negotiations: negotiations, logger: logger}
}

// CreateRequest defines card creation inputs.
type CreateRequest struct {
	ID           string
	Category     Category
	Title        LocalizedText
	Description  LocalizedText
	Details      LocalizedText
	IsCustom     bool
	Tags         []string
	Difficulty   int
	Frequency    Frequency
	TimeEstimate int
	CustomFields []CustomField
	CreatedBy    partner.PartnerID
}

// UpdateRequest defines card content updates. Nil fields are left unchanged.
type UpdateRequest struct {
	ID           string
	Title        *LocalizedText
	Description  *LocalizedText
	Details      *LocalizedText
	Tags         []string
	Difficulty   *int
	Frequency    *Frequency
	TimeEstimate *int
	IsActive     *bool
	ModifiedBy   partner.PartnerID
}

// Create creates a new card in the unassigned state.
func (s *Service) Create(ctx context.Context, householdID string, req CreateRequest) (*Card, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	now := time.Now()
	c := &Card{
		ID:           id,
		HouseholdID:  householdID,
		Category:     req.Category,
		Title:        req.Title,
		Description:  req.Description,
		Details:      req.Details,
		Holder:       nil,
		Status:       StatusUnassigned,
		CustomFields: req.CustomFields,
		Metadata: Metadata{
			CreatedAt:    now,
			ModifiedAt:   now,
			IsCustom:     req.IsCustom,
			IsActive:     true,
			Tags:         req.Tags,
			Difficulty:   req.Difficulty,
			Frequency:    req.Frequency,
			TimeEstimate: req.TimeEstimate,
		},
		History: []HistoryEntry{{
			ID:          uuid.NewString(),
			Action:      ActionCreated,
			Timestamp:   now,
			PerformedBy: req.CreatedBy,
		}},
	}

	if err := s.repo.Create(ctx, householdID, c); err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}

	return c, nil
}

// Get fetches a card by ID.
func (s *Service) Get(ctx context.Context, householdID, id string) (*Card, error) {
	c, err := s.repo.Get(ctx, householdID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("getting card: %w", err)
	}
	return c, nil
}

// Update modifies card content and metadata, appending a modified event.
func (s *Service) Update(ctx context.Context, householdID string, req UpdateRequest) (*Card, error) {
	current, err := s.Get(ctx, householdID, req.ID)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Details != nil {
		updated.Details = *req.Details
	}
	if req.Tags != nil {
		updated.Metadata.Tags = req.Tags
	}
	if req.Difficulty != nil {
		if *req.Difficulty < 1 || *req.Difficulty > MaxDifficulty {
			return nil, ErrInvalidInput
		}
		updated.Metadata.Difficulty = *req.Difficulty
	}
	if req.Frequency != nil {
		if !validFrequency(*req.Frequency) {
			return nil, ErrInvalidInput
		}
		updated.Metadata.Frequency = *req.Frequency
	}
	if req.TimeEstimate != nil {
		if *req.TimeEstimate <= 0 {
			return nil, ErrInvalidInput
		}
		updated.Metadata.TimeEstimate = *req.TimeEstimate
	}
	if req.IsActive != nil {
		updated.Metadata.IsActive = *req.IsActive
	}
	updated.Metadata.ModifiedAt = time.Now()

	if err := s.repo.Update(ctx, householdID, updated); err != nil {
		return nil, fmt.Errorf("updating card: %w", err)
	}

	entry := HistoryEntry{
		ID:          uuid.NewString(),
		Action:      ActionModified,
		Timestamp:   updated.Metadata.ModifiedAt,
		PerformedBy: req.ModifiedBy,
	}
	if err := s.repo.AppendHistory(ctx, householdID, updated.ID, entry); err != nil {
		return nil, fmt.Errorf("appending history: %w", err)
	}
	updated.History = append(updated.History, entry)

	return updated, nil
}

// Delete removes a card. Cards referenced by an open negotiation are
// protected and fail with ErrCardInNegotiation.
func (s *Service) Delete(ctx context.Context, householdID, id string) error {
	if s.negotiations != nil {
		open, err := s.negotiations.HasOpenNegotiationForCard(ctx, householdID, id)
		if err != nil {
			return fmt.Errorf("checking negotiations: %w", err)
		}
		if open {
			return ErrCardInNegotiation
		}
	}

	if err := s.repo.Delete(ctx, householdID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCardNotFound
		}
		return fmt.Errorf("deleting card: %w", err)
	}
	return nil
}

// List returns cards matching the options.
func (s *Service) List(ctx context.Context, householdID string, opts ListOptions) ([]Card, error) {
	cards, err := s.repo.List(ctx, householdID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	if opts.Query != "" {
		cards = filterByQuery(cards, opts.Query)
	}
	return cards, nil
}

// Unassigned returns the active unassigned cards, the deal engine's input.
func (s *Service) Unassigned(ctx context.Context, householdID string) ([]Card, error) {
	return s.List(ctx, householdID, ListOptions{Unassigned: true, ActiveOnly: true})
}

// SeedDeck bulk-creates the starter deck. Cards already present in the
// household are skipped, so seeding is idempotent. Returns the created cards.
func (s *Service) SeedDeck(ctx context.Context, householdID string, seededBy partner.PartnerID) ([]Card, error) {
	created := make([]Card, 0, len(starterDeck))
	for _, req := range starterDeck {
		if _, err := s.repo.Get(ctx, householdID, req.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("checking card %q: %w", req.ID, err)
		}
		req.CreatedBy = seededBy
		c, err := s.Create(ctx, householdID, req)
		if err != nil {
			return nil, fmt.Errorf("seeding card %q: %w", req.Title.EN, err)
		}
		created = append(created, *c)
	}
	s.log(ctx, "seeded starter deck", "household_id", householdID, "cards", len(created))
	return created, nil
}

// filterByQuery keeps cards whose localized title or description contains the
// query, case-insensitively.
func filterByQuery(cards []Card, query string) []Card {
	q := strings.ToLower(query)
	out := cards[:0]
	for _, c := range cards {
		if strings.Contains(strings.ToLower(c.Title.EN), q) ||
			strings.Contains(strings.ToLower(c.Title.HE), q) ||
			strings.Contains(strings.ToLower(c.Description.EN), q) ||
			strings.Contains(strings.ToLower(c.Description.HE), q) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) log(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
