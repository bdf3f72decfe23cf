package card_test

import (
	"context"
	"testing"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
	"github.com/fairdeck/fairdeck/internal/repository"
	"github.com/fairdeck/fairdeck/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createRequest() card.CreateRequest {
	return card.CreateRequest{
		Category:     card.CategoryHome,
		Title:        card.LocalizedText{EN: "Vacuum"},
		Difficulty:   2,
		Frequency:    card.FrequencyWeekly,
		TimeEstimate: 25,
		CreatedBy:    partner.PartnerA,
	}
}

func TestCardService_Create(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CardRepository{}
	repo.On("Create", ctx, "h1", mock.Anything).Return(nil)

	svc := card.NewService(repo, nil, nil)

	c, err := svc.Create(ctx, "h1", createRequest())
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Equal(t, card.StatusUnassigned, c.Status)
	require.Nil(t, c.Holder)
	require.True(t, c.Metadata.IsActive)
	require.Len(t, c.History, 1)
	require.Equal(t, card.ActionCreated, c.History[0].Action)
	require.Equal(t, partner.PartnerA, c.History[0].PerformedBy)
}

func TestCardService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	svc := card.NewService(&mocks.CardRepository{}, nil, nil)

	mutations := []func(*card.CreateRequest){
		func(r *card.CreateRequest) { r.Title = card.LocalizedText{} },
		func(r *card.CreateRequest) { r.Category = "chores" },
		func(r *card.CreateRequest) { r.Difficulty = 0 },
		func(r *card.CreateRequest) { r.Difficulty = 4 },
		func(r *card.CreateRequest) { r.Frequency = "hourly" },
		func(r *card.CreateRequest) { r.TimeEstimate = 0 },
	}
	for _, mutate := range mutations {
		req := createRequest()
		mutate(&req)
		_, err := svc.Create(ctx, "h1", req)
		require.ErrorIs(t, err, card.ErrInvalidInput)
	}
}

func TestCardService_Create_HebrewOnlyTitle(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CardRepository{}
	repo.On("Create", ctx, "h1", mock.Anything).Return(nil)

	svc := card.NewService(repo, nil, nil)

	req := createRequest()
	req.Title = card.LocalizedText{HE: "שאיבת אבק"}
	_, err := svc.Create(ctx, "h1", req)
	require.NoError(t, err)
}

func TestCardService_Get_NotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CardRepository{}
	repo.On("Get", ctx, "h1", "ghost").Return(nil, repository.ErrNotFound)

	svc := card.NewService(repo, nil, nil)

	_, err := svc.Get(ctx, "h1", "ghost")
	require.ErrorIs(t, err, card.ErrCardNotFound)
}

func TestCardService_Update(t *testing.T) {
	ctx := context.Background()

	existing := &card.Card{
		ID:       "c1",
		Category: card.CategoryHome,
		Title:    card.LocalizedText{EN: "Vacuum"},
		Status:   card.StatusUnassigned,
		Metadata: card.Metadata{IsActive: true, Difficulty: 2, Frequency: card.FrequencyWeekly, TimeEstimate: 25},
	}

	repo := &mocks.CardRepository{}
	repo.On("Get", ctx, "h1", "c1").Return(existing, nil)
	repo.On("Update", ctx, "h1", mock.Anything).Return(nil)
	repo.On("AppendHistory", ctx, "h1", "c1", mock.Anything).Return(nil)

	svc := card.NewService(repo, nil, nil)

	minutes := 40
	title := card.LocalizedText{EN: "Vacuum everywhere"}
	updated, err := svc.Update(ctx, "h1", card.UpdateRequest{
		ID:           "c1",
		Title:        &title,
		TimeEstimate: &minutes,
		ModifiedBy:   partner.PartnerB,
	})
	require.NoError(t, err)
	require.Equal(t, "Vacuum everywhere", updated.Title.EN)
	require.Equal(t, 40, updated.Metadata.TimeEstimate)
	require.Equal(t, card.ActionModified, updated.History[len(updated.History)-1].Action)

	// The loaded card is cloned before mutation
	require.Equal(t, "Vacuum", existing.Title.EN)
}

func TestCardService_Update_RejectsBadFields(t *testing.T) {
	ctx := context.Background()

	existing := &card.Card{
		ID:       "c1",
		Category: card.CategoryHome,
		Title:    card.LocalizedText{EN: "Vacuum"},
		Status:   card.StatusUnassigned,
		Metadata: card.Metadata{IsActive: true, Difficulty: 2, Frequency: card.FrequencyWeekly, TimeEstimate: 25},
	}

	repo := &mocks.CardRepository{}
	repo.On("Get", ctx, "h1", "c1").Return(existing, nil)

	svc := card.NewService(repo, nil, nil)

	badDifficulty := 5
	_, err := svc.Update(ctx, "h1", card.UpdateRequest{ID: "c1", Difficulty: &badDifficulty})
	require.ErrorIs(t, err, card.ErrInvalidInput)

	badMinutes := -10
	_, err = svc.Update(ctx, "h1", card.UpdateRequest{ID: "c1", TimeEstimate: &badMinutes})
	require.ErrorIs(t, err, card.ErrInvalidInput)

	badFrequency := card.Frequency("hourly")
	_, err = svc.Update(ctx, "h1", card.UpdateRequest{ID: "c1", Frequency: &badFrequency})
	require.ErrorIs(t, err, card.ErrInvalidInput)
}

func TestCardService_Delete_ProtectedByNegotiation(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CardRepository{}
	negotiations := &mocks.NegotiationRepository{}
	negotiations.On("HasOpenNegotiationForCard", ctx, "h1", "c1").Return(true, nil)

	svc := card.NewService(repo, negotiations, nil)

	err := svc.Delete(ctx, "h1", "c1")
	require.ErrorIs(t, err, card.ErrCardInNegotiation)
}

func TestCardService_Delete(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CardRepository{}
	repo.On("Delete", ctx, "h1", "c1").Return(nil)
	negotiations := &mocks.NegotiationRepository{}
	negotiations.On("HasOpenNegotiationForCard", ctx, "h1", "c1").Return(false, nil)

	svc := card.NewService(repo, negotiations, nil)

	require.NoError(t, svc.Delete(ctx, "h1", "c1"))

	repo.On("Delete", ctx, "h1", "ghost").Return(repository.ErrNotFound)
	negotiations.On("HasOpenNegotiationForCard", ctx, "h1", "ghost").Return(false, nil)
	require.ErrorIs(t, svc.Delete(ctx, "h1", "ghost"), card.ErrCardNotFound)
}

func TestCardService_List_QueryFilter(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CardRepository{}
	repo.On("List", ctx, "h1", mock.Anything).Return([]card.Card{
		{ID: "c1", Title: card.LocalizedText{EN: "Dishes"}},
		{ID: "c2", Title: card.LocalizedText{EN: "Laundry"}, Description: card.LocalizedText{EN: "fold the dishes towels"}},
		{ID: "c3", Title: card.LocalizedText{EN: "Trash"}},
	}, nil)

	svc := card.NewService(repo, nil, nil)

	cards, err := svc.List(ctx, "h1", card.ListOptions{Query: "dishes"})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.Equal(t, "c1", cards[0].ID)
	require.Equal(t, "c2", cards[1].ID)
}

func TestCardService_SeedDeck_Idempotent(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CardRepository{}
	// Fresh household: no starter card exists yet.
	repo.On("Get", ctx, "h1", mock.Anything).Return(nil, repository.ErrNotFound)
	repo.On("Create", ctx, "h1", mock.Anything).Return(nil)

	svc := card.NewService(repo, nil, nil)

	created, err := svc.SeedDeck(ctx, "h1", partner.PartnerA)
	require.NoError(t, err)
	require.NotEmpty(t, created)
	for _, c := range created {
		require.Equal(t, card.StatusUnassigned, c.Status)
		require.NotEmpty(t, c.ID)
	}

	// Second household where every starter card is already present.
	repo2 := &mocks.CardRepository{}
	repo2.On("Get", ctx, "h2", mock.Anything).Return(&card.Card{ID: "existing"}, nil)

	svc2 := card.NewService(repo2, nil, nil)
	again, err := svc2.SeedDeck(ctx, "h2", partner.PartnerA)
	require.NoError(t, err)
	require.Empty(t, again)
}

func TestCheckInvariant(t *testing.T) {
	holder := partner.PartnerA

	require.NoError(t, card.CheckInvariant(&card.Card{Status: card.StatusUnassigned}))
	require.NoError(t, card.CheckInvariant(&card.Card{Holder: &holder, Status: card.StatusHeld}))

	// No holder but a held status
	require.Error(t, card.CheckInvariant(&card.Card{Status: card.StatusHeld}))
	// Holder on an unassigned card
	require.Error(t, card.CheckInvariant(&card.Card{Holder: &holder, Status: card.StatusUnassigned}))
	// Holder outside the fixed pair
	rogue := partner.PartnerID("partner-c")
	require.Error(t, card.CheckInvariant(&card.Card{Holder: &rogue, Status: card.StatusHeld}))
}
