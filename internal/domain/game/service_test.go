package game_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/deal"
	"github.com/fairdeck/fairdeck/internal/domain/game"
	"github.com/fairdeck/fairdeck/internal/domain/negotiation"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
	"github.com/fairdeck/fairdeck/internal/repository"
	"github.com/fairdeck/fairdeck/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubDirectory satisfies game.PartnerDirectory without a partner service.
type stubDirectory struct {
	pair       partner.Pair
	recomputed int
}

func (s *stubDirectory) EnsurePair(context.Context, string) (partner.Pair, error) {
	return s.pair, nil
}

func (s *stubDirectory) RecomputeStats(context.Context, string) (partner.Pair, error) {
	s.recomputed++
	return s.pair, nil
}

func fixedPair() partner.Pair {
	return partner.Pair{
		A: partner.Partner{ID: partner.PartnerA, Name: "Partner A"},
		B: partner.Partner{ID: partner.PartnerB, Name: "Partner B"},
	}
}

func unassignedCard(id string, minutes int) card.Card {
	return card.Card{
		ID:       id,
		Category: card.CategoryHome,
		Status:   card.StatusUnassigned,
		Metadata: card.Metadata{IsActive: true, Difficulty: 1, Frequency: card.FrequencyWeekly, TimeEstimate: minutes},
	}
}

func heldByCard(id string, holder partner.PartnerID) card.Card {
	h := holder
	return card.Card{
		ID:       id,
		Category: card.CategoryHome,
		Holder:   &h,
		Status:   card.StatusHeld,
		Metadata: card.Metadata{IsActive: true, Difficulty: 1, Frequency: card.FrequencyWeekly, TimeEstimate: 10},
	}
}

func TestGameService_StartAndSnapshot(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	negotiations := &mocks.NegotiationRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	cards.On("List", ctx, "h1", mock.Anything).Return([]card.Card{unassignedCard("c1", 10), unassignedCard("c2", 20)}, nil)
	games.On("Save", ctx, "h1", mock.Anything).Return(nil)

	svc := game.NewService(games, cards, negotiations, dir, nil, nil)

	state, err := svc.Start(ctx, "h1", game.StartRequest{DealMode: deal.ModeWeighted})
	require.NoError(t, err)
	require.True(t, state.IsActive)
	require.Equal(t, deal.ModeWeighted, state.DealMode)
	require.Len(t, state.Cards, 2)
	require.Equal(t, partner.PartnerA, state.Partners.A.ID)

	snapshot, err := svc.Snapshot(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, state.ID, snapshot.ID)

	// Snapshots are deep copies; mutating one is invisible to the service.
	snapshot.Cards[0].Status = card.StatusPaused
	again, err := svc.Snapshot(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, card.StatusUnassigned, again.Cards[0].Status)
}

func TestGameService_Start_DefaultsAndValidation(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	svc := game.NewService(games, cards, &mocks.NegotiationRepository{}, dir, nil, nil)

	_, err := svc.Start(ctx, "h1", game.StartRequest{DealMode: "bogus"})
	require.ErrorIs(t, err, deal.ErrInvalidMode)

	_, err = svc.Start(ctx, "h1", game.StartRequest{Rules: game.Rules{MinCardsPerPartner: -1}})
	require.ErrorIs(t, err, game.ErrInvalidInput)

	cards.On("List", ctx, "h1", mock.Anything).Return([]card.Card{}, nil)
	games.On("Save", ctx, "h1", mock.Anything).Return(nil)

	state, err := svc.Start(ctx, "h1", game.StartRequest{})
	require.NoError(t, err)
	require.Equal(t, deal.ModeRandom, state.DealMode)
}

func TestGameService_Snapshot_NoActiveGame(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	games.On("GetActive", ctx, "h1").Return(nil, repository.ErrNotFound)

	svc := game.NewService(games, &mocks.CardRepository{}, &mocks.NegotiationRepository{}, &stubDirectory{pair: fixedPair()}, nil, nil)

	_, err := svc.Snapshot(ctx, "h1")
	require.ErrorIs(t, err, game.ErrNoActiveGame)
}

func TestGameService_Snapshot_HydratesFromStore(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	negotiations := &mocks.NegotiationRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	games.On("GetActive", ctx, "h1").Return(&game.State{ID: "g1", HouseholdID: "h1", IsActive: true, DealMode: deal.ModeQuick}, nil)
	cards.On("List", ctx, "h1", mock.Anything).Return([]card.Card{heldByCard("c1", partner.PartnerA)}, nil)
	negotiations.On("ListByGame", ctx, "h1", "g1").Return([]negotiation.Negotiation{}, nil)

	svc := game.NewService(games, cards, negotiations, dir, nil, nil)

	snapshot, err := svc.Snapshot(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, "g1", snapshot.ID)
	require.Len(t, snapshot.Cards, 1)
	require.Equal(t, partner.PartnerA, snapshot.Partners.A.ID)
}

func TestGameService_StartDeal_Quick(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	negotiations := &mocks.NegotiationRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	pool := []card.Card{unassignedCard("c1", 10), unassignedCard("c2", 20), unassignedCard("c3", 30)}
	cards.On("List", ctx, "h1", mock.Anything).Return(pool, nil)
	cards.On("Update", ctx, "h1", mock.Anything).Return(nil)
	cards.On("AppendHistory", ctx, "h1", mock.Anything, mock.Anything).Return(nil)
	games.On("Save", ctx, "h1", mock.Anything).Return(nil)

	svc := game.NewService(games, cards, negotiations, dir, rand.NewSource(1), nil)

	_, err := svc.Start(ctx, "h1", game.StartRequest{DealMode: deal.ModeQuick})
	require.NoError(t, err)

	result, err := svc.StartDeal(ctx, "h1", "")
	require.NoError(t, err)
	require.Equal(t, deal.ModeQuick, result.Mode)
	require.Equal(t, 3, result.Dealt)
	require.Equal(t, partner.PartnerA, result.Assignment["c1"])
	require.Equal(t, partner.PartnerB, result.Assignment["c2"])
	require.Equal(t, partner.PartnerA, result.Assignment["c3"])
	require.Equal(t, 1, dir.recomputed)

	snapshot, err := svc.Snapshot(ctx, "h1")
	require.NoError(t, err)
	for _, c := range snapshot.Cards {
		require.Equal(t, card.StatusHeld, c.Status)
		require.NotNil(t, c.Holder)
		require.NotEmpty(t, c.History)
	}
	require.Len(t, snapshot.DealHistory, 1)
	require.Equal(t, 2, snapshot.Partners.A.Stats.CurrentCards)
	require.Equal(t, 1, snapshot.Partners.B.Stats.CurrentCards)
}

func TestGameService_StartDeal_CardRefreshFailure(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	pool := []card.Card{unassignedCard("c1", 10), unassignedCard("c2", 20)}
	cards.On("List", ctx, "h1", mock.Anything).Return(pool, nil).Once()
	cards.On("List", ctx, "h1", mock.Anything).Return(nil, errors.New("db down"))
	cards.On("Update", ctx, "h1", mock.Anything).Return(nil)
	cards.On("AppendHistory", ctx, "h1", mock.Anything, mock.Anything).Return(nil)
	games.On("Save", ctx, "h1", mock.Anything).Return(nil)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	svc := game.NewService(games, cards, &mocks.NegotiationRepository{}, dir, rand.NewSource(1), logger)

	_, err := svc.Start(ctx, "h1", game.StartRequest{DealMode: deal.ModeQuick})
	require.NoError(t, err)

	// The deal falls back to the session's loaded cards and the failed
	// refresh is logged rather than dropped.
	result, err := svc.StartDeal(ctx, "h1", "")
	require.NoError(t, err)
	require.Equal(t, 2, result.Dealt)
	require.Contains(t, logs.String(), "card refresh failed")
}

func TestGameService_StartDeal_AfterEnd(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	cards.On("List", ctx, "h1", mock.Anything).Return([]card.Card{}, nil)
	games.On("Save", ctx, "h1", mock.Anything).Return(nil)

	svc := game.NewService(games, cards, &mocks.NegotiationRepository{}, dir, nil, nil)

	_, err := svc.Start(ctx, "h1", game.StartRequest{})
	require.NoError(t, err)

	ended, err := svc.End(ctx, "h1")
	require.NoError(t, err)
	require.False(t, ended.IsActive)

	_, err = svc.StartDeal(ctx, "h1", "")
	require.ErrorIs(t, err, game.ErrGameEnded)

	_, err = svc.End(ctx, "h1")
	require.ErrorIs(t, err, game.ErrGameEnded)
}

func TestGameService_NegotiationLifecycle(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	negotiations := &mocks.NegotiationRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	cards.On("List", ctx, "h1", mock.Anything).Return([]card.Card{heldByCard("c1", partner.PartnerA)}, nil)
	cards.On("Update", ctx, "h1", mock.Anything).Return(nil)
	cards.On("AppendHistory", ctx, "h1", mock.Anything, mock.Anything).Return(nil)
	negotiations.On("Save", ctx, "h1", mock.Anything).Return(nil)
	games.On("Save", ctx, "h1", mock.Anything).Return(nil)

	svc := game.NewService(games, cards, negotiations, dir, nil, nil)

	_, err := svc.Start(ctx, "h1", game.StartRequest{})
	require.NoError(t, err)

	n, err := svc.RequestNegotiation(ctx, "h1", negotiation.Proposal{
		From:    partner.PartnerA,
		To:      partner.PartnerB,
		CardIDs: []string{"c1"},
	})
	require.NoError(t, err)
	require.Equal(t, negotiation.StatusPending, n.Status)
	require.NotEmpty(t, n.GameID)

	// Only the receiving partner may respond.
	_, err = svc.RespondNegotiation(ctx, "h1", game.RespondRequest{
		NegotiationID: n.ID,
		Actor:         partner.PartnerA,
		Decision:      negotiation.DecisionAccept,
	})
	require.ErrorIs(t, err, negotiation.ErrInvalidActor)

	resolved, err := svc.RespondNegotiation(ctx, "h1", game.RespondRequest{
		NegotiationID: n.ID,
		Actor:         partner.PartnerB,
		Decision:      negotiation.DecisionAccept,
	})
	require.NoError(t, err)
	require.Equal(t, negotiation.StatusAccepted, resolved.Status)
	require.Equal(t, 1, dir.recomputed)

	// A second response observes the terminal state.
	_, err = svc.RespondNegotiation(ctx, "h1", game.RespondRequest{
		NegotiationID: n.ID,
		Actor:         partner.PartnerB,
		Decision:      negotiation.DecisionReject,
	})
	require.ErrorIs(t, err, negotiation.ErrAlreadyResolved)

	snapshot, err := svc.Snapshot(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, partner.PartnerB, *snapshot.Cards[0].Holder)
}

func TestGameService_RequestNegotiation_ConflictOnSecondProposal(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	negotiations := &mocks.NegotiationRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	cards.On("List", ctx, "h1", mock.Anything).Return([]card.Card{heldByCard("c1", partner.PartnerA)}, nil)
	cards.On("Update", ctx, "h1", mock.Anything).Return(nil)
	cards.On("AppendHistory", ctx, "h1", mock.Anything, mock.Anything).Return(nil)
	negotiations.On("Save", ctx, "h1", mock.Anything).Return(nil)
	games.On("Save", ctx, "h1", mock.Anything).Return(nil)

	svc := game.NewService(games, cards, negotiations, dir, nil, nil)

	_, err := svc.Start(ctx, "h1", game.StartRequest{})
	require.NoError(t, err)

	proposal := negotiation.Proposal{From: partner.PartnerA, To: partner.PartnerB, CardIDs: []string{"c1"}}
	_, err = svc.RequestNegotiation(ctx, "h1", proposal)
	require.NoError(t, err)

	_, err = svc.RequestNegotiation(ctx, "h1", proposal)
	require.ErrorIs(t, err, negotiation.ErrConflict)
}

func TestGameService_RespondNegotiation_UnknownID(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	cards.On("List", ctx, "h1", mock.Anything).Return([]card.Card{}, nil)
	games.On("Save", ctx, "h1", mock.Anything).Return(nil)

	svc := game.NewService(games, cards, &mocks.NegotiationRepository{}, dir, nil, nil)

	_, err := svc.Start(ctx, "h1", game.StartRequest{})
	require.NoError(t, err)

	_, err = svc.RespondNegotiation(ctx, "h1", game.RespondRequest{
		NegotiationID: "ghost",
		Actor:         partner.PartnerB,
		Decision:      negotiation.DecisionAccept,
	})
	require.ErrorIs(t, err, negotiation.ErrNotFound)
}

func TestGameService_PersistenceFailureKeepsState(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	cards.On("List", ctx, "h1", mock.Anything).Return([]card.Card{}, nil)
	games.On("Save", ctx, "h1", mock.Anything).Return(errors.New("disk full"))

	svc := game.NewService(games, cards, &mocks.NegotiationRepository{}, dir, nil, nil)

	state, err := svc.Start(ctx, "h1", game.StartRequest{})
	require.ErrorIs(t, err, game.ErrPersistence)
	require.NotNil(t, state)
	require.True(t, state.IsActive)

	// The in-memory state survives the store failure.
	snapshot, snapErr := svc.Snapshot(ctx, "h1")
	require.NoError(t, snapErr)
	require.Equal(t, state.ID, snapshot.ID)
}

func TestGameService_ConcurrentResponds_OneWins(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	negotiations := &mocks.NegotiationRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	cards.On("List", ctx, "h1", mock.Anything).Return([]card.Card{heldByCard("c1", partner.PartnerA)}, nil)
	cards.On("Update", ctx, "h1", mock.Anything).Return(nil)
	cards.On("AppendHistory", ctx, "h1", mock.Anything, mock.Anything).Return(nil)
	negotiations.On("Save", ctx, "h1", mock.Anything).Return(nil)
	games.On("Save", ctx, "h1", mock.Anything).Return(nil)

	svc := game.NewService(games, cards, negotiations, dir, nil, nil)

	_, err := svc.Start(ctx, "h1", game.StartRequest{})
	require.NoError(t, err)

	n, err := svc.RequestNegotiation(ctx, "h1", negotiation.Proposal{
		From:    partner.PartnerA,
		To:      partner.PartnerB,
		CardIDs: []string{"c1"},
	})
	require.NoError(t, err)

	// Two simultaneous accepts race through the mutex: exactly one wins, the
	// other sees the terminal state.
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.RespondNegotiation(ctx, "h1", game.RespondRequest{
				NegotiationID: n.ID,
				Actor:         partner.PartnerB,
				Decision:      negotiation.DecisionAccept,
			})
			results <- err
		}()
	}

	var resolved, wins int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		case errors.Is(err, negotiation.ErrAlreadyResolved):
			resolved++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, 1, resolved)
}

func TestGameService_ListNegotiations_OpenFirst(t *testing.T) {
	ctx := context.Background()

	games := &mocks.GameRepository{}
	cards := &mocks.CardRepository{}
	negotiations := &mocks.NegotiationRepository{}
	dir := &stubDirectory{pair: fixedPair()}

	cards.On("List", ctx, "h1", mock.Anything).Return([]card.Card{
		heldByCard("c1", partner.PartnerA),
		heldByCard("c2", partner.PartnerA),
	}, nil)
	cards.On("Update", ctx, "h1", mock.Anything).Return(nil)
	cards.On("AppendHistory", ctx, "h1", mock.Anything, mock.Anything).Return(nil)
	negotiations.On("Save", ctx, "h1", mock.Anything).Return(nil)
	games.On("Save", ctx, "h1", mock.Anything).Return(nil)

	svc := game.NewService(games, cards, negotiations, dir, nil, nil)

	_, err := svc.Start(ctx, "h1", game.StartRequest{})
	require.NoError(t, err)

	first, err := svc.RequestNegotiation(ctx, "h1", negotiation.Proposal{From: partner.PartnerA, To: partner.PartnerB, CardIDs: []string{"c1"}})
	require.NoError(t, err)
	_, err = svc.RespondNegotiation(ctx, "h1", game.RespondRequest{NegotiationID: first.ID, Actor: partner.PartnerB, Decision: negotiation.DecisionReject})
	require.NoError(t, err)

	second, err := svc.RequestNegotiation(ctx, "h1", negotiation.Proposal{From: partner.PartnerA, To: partner.PartnerB, CardIDs: []string{"c2"}})
	require.NoError(t, err)

	list, err := svc.ListNegotiations(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)
}
