package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/deal"
	"github.com/fairdeck/fairdeck/internal/domain/negotiation"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
	"github.com/fairdeck/fairdeck/internal/repository"
	"github.com/google/uuid"
)

// Service is the game session controller: sole owner and mutator of each
// household's GameState. A single mutex serializes every mutation, so two
// concurrent responses to one negotiation cannot both succeed.
//
// Writes to the store are best-effort: once the in-memory state is committed
// a store failure surfaces wrapped in ErrPersistence, it is never retried
// and never rolls the state back.
type Service struct {
	mu     sync.Mutex
	active map[string]*State

	games        Repository
	cards        CardStore
	negotiations NegotiationStore
	partners     PartnerDirectory
	src          rand.Source
	logger       *slog.Logger
}

// NewService creates a game session controller. A nil rand source makes each
// deal time-seeded; tests pass a fixed source for determinism.
func NewService(games Repository, cards CardStore, negotiations NegotiationStore, partners PartnerDirectory, src rand.Source, logger *slog.Logger) *Service {
	return &Service{
		active:       make(map[string]*State),
		games:        games,
		cards:        cards,
		negotiations: negotiations,
		partners:     partners,
		src:          src,
		logger:       logger,
	}
}

// StartRequest configures a new game session.
type StartRequest struct {
	DealMode deal.Mode
	Rules    Rules
}

// Start begins a new session: the fixed pair is ensured, the household's
// active cards are loaded, and any previous session is replaced.
func (s *Service) Start(ctx context.Context, householdID string, req StartRequest) (*State, error) {
	if req.DealMode == "" {
		req.DealMode = deal.ModeRandom
	}
	if !deal.ValidMode(req.DealMode) {
		return nil, deal.ErrInvalidMode
	}
	if req.Rules.MinCardsPerPartner < 0 {
		return nil, ErrInvalidInput
	}

	pair, err := s.partners.EnsurePair(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("ensuring partners: %w", err)
	}
	cards, err := s.cards.List(ctx, householdID, card.ListOptions{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("loading cards: %w", err)
	}

	now := time.Now()
	state := &State{
		ID:          uuid.NewString(),
		HouseholdID: householdID,
		Partners:    pair,
		Cards:       cards,
		DealMode:    req.DealMode,
		Rules:       req.Rules,
		IsActive:    true,
		CreatedAt:   now,
		ModifiedAt:  now,
	}

	s.mu.Lock()
	s.active[householdID] = state
	snapshot := state.Clone()
	s.mu.Unlock()

	if err := s.games.Save(ctx, householdID, state); err != nil {
		return snapshot, fmt.Errorf("%w: saving game: %v", ErrPersistence, err)
	}

	s.log(ctx, "game started", "household_id", householdID, "game_id", state.ID, "cards", len(cards))
	return snapshot, nil
}

// Snapshot returns a read-only deep copy of the active state.
func (s *Service) Snapshot(ctx context.Context, householdID string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx, householdID)
	if err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

// StartDeal distributes the currently unassigned cards using the given mode.
// The assignment is applied all-or-nothing: a failed deal leaves every card
// untouched.
func (s *Service) StartDeal(ctx context.Context, householdID string, mode deal.Mode) (*DealResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if !state.IsActive {
		return nil, ErrGameEnded
	}
	if mode == "" {
		mode = state.DealMode
	}

	// Pick up cards created since the session started. A failed refresh is
	// not fatal, the deal just runs on the loaded snapshot.
	state = state.Clone()
	if fresh, err := s.cards.List(ctx, householdID, card.ListOptions{ActiveOnly: true}); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "card refresh failed, dealing from loaded state",
				"household_id", householdID, "game_id", state.ID, "error", err)
		}
	} else {
		state.Cards = fresh
	}

	pool := make([]card.Card, 0)
	for _, c := range state.Cards {
		if c.Status == card.StatusUnassigned {
			pool = append(pool, c)
		}
	}

	src := s.src
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	engine := deal.NewEngine(src)
	assignment, err := engine.Deal(pool, state.Partners, mode, state.Rules.DealRules())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dealID := uuid.NewString()
	touched := make([]*card.Card, 0, len(assignment))
	for cardID, holder := range assignment {
		c := state.cardByID(cardID)
		if c == nil {
			continue
		}
		h := holder
		c.Holder = &h
		c.Status = card.StatusHeld
		c.Metadata.ModifiedAt = now
		entry := card.HistoryEntry{
			ID:          uuid.NewString(),
			Action:      card.ActionAssigned,
			Timestamp:   now,
			PerformedBy: holder,
			Details:     map[string]any{"deal_id": dealID, "mode": string(mode)},
		}
		if state.Rules.TrackTime {
			entry.Details["time_estimate"] = c.Metadata.TimeEstimate
		}
		c.History = append(c.History, entry)
		touched = append(touched, c)
	}

	state.DealMode = mode
	state.DealHistory = append(state.DealHistory, dealID)
	state.ModifiedAt = now
	refreshStats(state)

	// Commit, then persist best-effort.
	s.active[householdID] = state

	result := &DealResult{DealID: dealID, Mode: mode, Assignment: assignment, Dealt: len(assignment)}
	if err := s.persistCards(ctx, householdID, touched, 1); err != nil {
		return result, err
	}
	if _, err := s.partners.RecomputeStats(ctx, householdID); err != nil {
		return result, fmt.Errorf("%w: recomputing stats: %v", ErrPersistence, err)
	}
	if err := s.games.Save(ctx, householdID, state); err != nil {
		return result, fmt.Errorf("%w: saving game: %v", ErrPersistence, err)
	}

	s.log(ctx, "deal completed", "household_id", householdID, "deal_id", dealID, "mode", mode, "dealt", len(assignment))
	return result, nil
}

// RequestNegotiation opens a negotiation proposing a card transfer.
func (s *Service) RequestNegotiation(ctx context.Context, householdID string, proposal negotiation.Proposal) (*negotiation.Negotiation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if !state.IsActive {
		return nil, ErrGameEnded
	}

	next := state.Clone()
	cards, before := cardSetFor(next, proposal.CardIDs)
	n, err := negotiation.Propose(householdID, proposal, cards, func(id string) bool {
		return next.hasOpenNegotiationFor(id, "")
	}, time.Now())
	if err != nil {
		return nil, err
	}

	n.GameID = next.ID
	next.Negotiations = append(next.Negotiations, *n)
	next.ModifiedAt = n.CreatedAt
	s.active[householdID] = next

	out := n.Clone()
	if err := s.persistNegotiationOutcome(ctx, householdID, next, n.ID, cards, before); err != nil {
		return out, err
	}

	s.log(ctx, "negotiation proposed", "household_id", householdID, "negotiation_id", n.ID, "from", proposal.From, "to", proposal.To, "cards", len(proposal.CardIDs))
	return out, nil
}

// RespondRequest describes a response to an open negotiation.
type RespondRequest struct {
	NegotiationID string
	Actor         partner.PartnerID
	Decision      negotiation.Decision
	Counter       *negotiation.Proposal
}

// RespondNegotiation applies accept/reject/counter to an open negotiation.
func (s *Service) RespondNegotiation(ctx context.Context, householdID string, req RespondRequest) (*negotiation.Negotiation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if !state.IsActive {
		return nil, ErrGameEnded
	}

	if state.negotiationByID(req.NegotiationID) == nil {
		return nil, negotiation.ErrNotFound
	}

	next := state.Clone()
	n := next.negotiationByID(req.NegotiationID)

	ids := append([]string(nil), n.CardIDs...)
	if req.Counter != nil {
		ids = append(ids, req.Counter.CardIDs...)
	}
	cards, before := cardSetFor(next, ids)

	err = negotiation.Respond(n, req.Actor, req.Decision, req.Counter, cards, func(id string) bool {
		return next.hasOpenNegotiationFor(id, n.ID)
	}, time.Now())
	if err != nil {
		return nil, err
	}

	next.ModifiedAt = n.ModifiedAt
	if n.Status == negotiation.StatusAccepted {
		refreshStats(next)
	}
	s.active[householdID] = next

	out := n.Clone()
	if err := s.persistNegotiationOutcome(ctx, householdID, next, n.ID, cards, before); err != nil {
		return out, err
	}
	if n.Status == negotiation.StatusAccepted {
		if _, err := s.partners.RecomputeStats(ctx, householdID); err != nil {
			return out, fmt.Errorf("%w: recomputing stats: %v", ErrPersistence, err)
		}
	}

	s.log(ctx, "negotiation response", "household_id", householdID, "negotiation_id", n.ID, "decision", req.Decision, "status", n.Status)
	return out, nil
}

// ListNegotiations returns the session's negotiations, open ones first.
func (s *Service) ListNegotiations(ctx context.Context, householdID string) ([]negotiation.Negotiation, error) {
	snapshot, err := s.Snapshot(ctx, householdID)
	if err != nil {
		return nil, err
	}
	open := make([]negotiation.Negotiation, 0, len(snapshot.Negotiations))
	closed := make([]negotiation.Negotiation, 0)
	for _, n := range snapshot.Negotiations {
		if n.Status.Open() {
			open = append(open, n)
		} else {
			closed = append(closed, n)
		}
	}
	return append(open, closed...), nil
}

// End deactivates the session. Further mutations fail with ErrGameEnded.
func (s *Service) End(ctx context.Context, householdID string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if !state.IsActive {
		return nil, ErrGameEnded
	}

	next := state.Clone()
	next.IsActive = false
	next.ModifiedAt = time.Now()
	s.active[householdID] = next

	snapshot := next.Clone()
	if err := s.games.Save(ctx, householdID, next); err != nil {
		return snapshot, fmt.Errorf("%w: saving game: %v", ErrPersistence, err)
	}

	s.log(ctx, "game ended", "household_id", householdID, "game_id", next.ID)
	return snapshot, nil
}

// loadLocked returns the in-memory state, hydrating from the store on first
// access. Callers hold the mutex.
func (s *Service) loadLocked(ctx context.Context, householdID string) (*State, error) {
	if state, ok := s.active[householdID]; ok {
		return state, nil
	}

	meta, err := s.games.GetActive(ctx, householdID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, fmt.Errorf("loading game: %w", err)
	}

	pair, err := s.partners.EnsurePair(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("ensuring partners: %w", err)
	}
	cards, err := s.cards.List(ctx, householdID, card.ListOptions{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("loading cards: %w", err)
	}
	negotiations, err := s.negotiations.ListByGame(ctx, householdID, meta.ID)
	if err != nil {
		return nil, fmt.Errorf("loading negotiations: %w", err)
	}

	meta.Partners = pair
	meta.Cards = cards
	meta.Negotiations = negotiations
	s.active[householdID] = meta
	return meta, nil
}

// persistCards writes touched cards and the history entries appended beyond
// each card's prior length.
func (s *Service) persistCards(ctx context.Context, householdID string, touched []*card.Card, newEntries int) error {
	for _, c := range touched {
		if err := s.cards.Update(ctx, householdID, c); err != nil {
			return fmt.Errorf("%w: saving card %s: %v", ErrPersistence, c.ID, err)
		}
		start := len(c.History) - newEntries
		if start < 0 {
			start = 0
		}
		for _, entry := range c.History[start:] {
			if err := s.cards.AppendHistory(ctx, householdID, c.ID, entry); err != nil {
				return fmt.Errorf("%w: saving card history %s: %v", ErrPersistence, c.ID, err)
			}
		}
	}
	return nil
}

// persistNegotiationOutcome writes the negotiation and every card whose
// status or history changed during a machine transition.
func (s *Service) persistNegotiationOutcome(ctx context.Context, householdID string, state *State, negotiationID string, cards negotiation.CardSet, before map[string]int) error {
	n := state.negotiationByID(negotiationID)
	if err := s.negotiations.Save(ctx, householdID, n); err != nil {
		return fmt.Errorf("%w: saving negotiation: %v", ErrPersistence, err)
	}
	for id, c := range cards {
		if err := s.cards.Update(ctx, householdID, c); err != nil {
			return fmt.Errorf("%w: saving card %s: %v", ErrPersistence, id, err)
		}
		for _, entry := range c.History[before[id]:] {
			if err := s.cards.AppendHistory(ctx, householdID, id, entry); err != nil {
				return fmt.Errorf("%w: saving card history %s: %v", ErrPersistence, id, err)
			}
		}
	}
	if err := s.games.Save(ctx, householdID, state); err != nil {
		return fmt.Errorf("%w: saving game: %v", ErrPersistence, err)
	}
	return nil
}

// cardSetFor indexes the state's copies of the given cards and records each
// card's history length, so newly appended entries can be persisted later.
func cardSetFor(state *State, ids []string) (negotiation.CardSet, map[string]int) {
	cards := make(negotiation.CardSet, len(ids))
	before := make(map[string]int, len(ids))
	for _, id := range ids {
		if c := state.cardByID(id); c != nil {
			cards[id] = c
			before[id] = len(c.History)
		}
	}
	return cards, before
}

func refreshStats(state *State) {
	countA, countB := 0, 0
	minutesA, minutesB := 0, 0
	for i := range state.Cards {
		c := &state.Cards[i]
		if c.Holder == nil {
			continue
		}
		if *c.Holder == state.Partners.A.ID {
			countA++
			minutesA += c.Metadata.TimeEstimate
		} else {
			countB++
			minutesB += c.Metadata.TimeEstimate
		}
	}
	state.Partners.A.Stats.CurrentCards = countA
	state.Partners.A.Stats.TotalTimeCommitment = minutesA
	state.Partners.B.Stats.CurrentCards = countB
	state.Partners.B.Stats.TotalTimeCommitment = minutesB
}

func (s *Service) log(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
