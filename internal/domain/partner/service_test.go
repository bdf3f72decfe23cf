package partner_test

import (
	"context"
	"testing"

	"github.com/fairdeck/fairdeck/internal/domain/partner"
	"github.com/fairdeck/fairdeck/internal/repository"
	"github.com/fairdeck/fairdeck/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPartnerService_EnsurePair_CreatesDefaults(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.PartnerRepository{}
	repo.On("Get", ctx, "h1", mock.Anything).Return(nil, repository.ErrNotFound)
	repo.On("Upsert", ctx, "h1", mock.Anything).Return(nil)

	svc := partner.NewService(repo, nil, nil)

	pair, err := svc.EnsurePair(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, partner.PartnerA, pair.A.ID)
	require.Equal(t, partner.PartnerB, pair.B.ID)
	require.Equal(t, "Partner A", pair.A.Name)
	require.Equal(t, "Partner B", pair.B.Name)
	require.Equal(t, "h1", pair.A.HouseholdID)
	repo.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestPartnerService_EnsurePair_KeepsExisting(t *testing.T) {
	ctx := context.Background()

	a := &partner.Partner{ID: partner.PartnerA, HouseholdID: "h1", Name: "Dana"}
	b := &partner.Partner{ID: partner.PartnerB, HouseholdID: "h1", Name: "Noam"}

	repo := &mocks.PartnerRepository{}
	repo.On("Get", ctx, "h1", partner.PartnerA).Return(a, nil)
	repo.On("Get", ctx, "h1", partner.PartnerB).Return(b, nil)

	svc := partner.NewService(repo, nil, nil)

	pair, err := svc.EnsurePair(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, "Dana", pair.A.Name)
	require.Equal(t, "Noam", pair.B.Name)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestPartnerService_Get(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.PartnerRepository{}
	repo.On("Get", ctx, "h1", partner.PartnerA).Return(nil, repository.ErrNotFound)

	svc := partner.NewService(repo, nil, nil)

	_, err := svc.Get(ctx, "h1", "partner-c")
	require.ErrorIs(t, err, partner.ErrInvalidPartner)

	_, err = svc.Get(ctx, "h1", partner.PartnerA)
	require.ErrorIs(t, err, partner.ErrPartnerNotFound)
}

func TestPartnerService_UpdatePreferences_MergesFields(t *testing.T) {
	ctx := context.Background()

	existing := &partner.Partner{
		ID:          partner.PartnerA,
		HouseholdID: "h1",
		Name:        "Dana",
		Preferences: partner.Preferences{
			FavoriteCards: []string{"dishes"},
			StrongSuits:   []string{"kids"},
		},
	}

	repo := &mocks.PartnerRepository{}
	repo.On("Get", ctx, "h1", partner.PartnerA).Return(existing, nil)
	repo.On("Upsert", ctx, "h1", mock.Anything).Return(nil)

	svc := partner.NewService(repo, nil, nil)

	updated, err := svc.UpdatePreferences(ctx, "h1", partner.UpdatePreferencesRequest{
		ID:          partner.PartnerA,
		StrongSuits: []string{"home", "magic"},
	})
	require.NoError(t, err)

	// Only the provided field changes; the rest carries over.
	require.Equal(t, "Dana", updated.Name)
	require.Equal(t, []string{"dishes"}, updated.Preferences.FavoriteCards)
	require.Equal(t, []string{"home", "magic"}, updated.Preferences.StrongSuits)

	// The stored partner is untouched.
	require.Equal(t, []string{"kids"}, existing.Preferences.StrongSuits)
}

func TestPartnerService_UpdatePreferences_Rename(t *testing.T) {
	ctx := context.Background()

	existing := &partner.Partner{ID: partner.PartnerB, HouseholdID: "h1", Name: "Partner B"}

	repo := &mocks.PartnerRepository{}
	repo.On("Get", ctx, "h1", partner.PartnerB).Return(existing, nil)
	repo.On("Upsert", ctx, "h1", mock.Anything).Return(nil)

	svc := partner.NewService(repo, nil, nil)

	name := "Noam"
	updated, err := svc.UpdatePreferences(ctx, "h1", partner.UpdatePreferencesRequest{
		ID:   partner.PartnerB,
		Name: &name,
	})
	require.NoError(t, err)
	require.Equal(t, "Noam", updated.Name)
}

func TestPartnerService_RecomputeStats(t *testing.T) {
	ctx := context.Background()

	a := &partner.Partner{
		ID:          partner.PartnerA,
		HouseholdID: "h1",
		Stats:       partner.Stats{Streaks: []partner.Streak{{ID: "s1", CardID: "dishes", Count: 4}}},
	}
	b := &partner.Partner{ID: partner.PartnerB, HouseholdID: "h1"}

	repo := &mocks.PartnerRepository{}
	repo.On("Get", ctx, "h1", partner.PartnerA).Return(a, nil)
	repo.On("Get", ctx, "h1", partner.PartnerB).Return(b, nil)
	repo.On("UpdateStats", ctx, "h1", partner.PartnerA, mock.Anything).Return(nil)
	repo.On("UpdateStats", ctx, "h1", partner.PartnerB, mock.Anything).Return(nil)

	cards := &mocks.CardRepository{}
	cards.On("HoldingSummary", ctx, "h1", partner.PartnerA).Return(partner.HoldingSummary{CardCount: 4, TotalMinutes: 95}, nil)
	cards.On("HoldingSummary", ctx, "h1", partner.PartnerB).Return(partner.HoldingSummary{CardCount: 3, TotalMinutes: 60}, nil)

	svc := partner.NewService(repo, cards, nil)

	pair, err := svc.RecomputeStats(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, 4, pair.A.Stats.CurrentCards)
	require.Equal(t, 95, pair.A.Stats.TotalTimeCommitment)
	require.Equal(t, 3, pair.B.Stats.CurrentCards)
	require.Equal(t, 60, pair.B.Stats.TotalTimeCommitment)

	// Streaks survive the recompute.
	require.Len(t, pair.A.Stats.Streaks, 1)
	require.Equal(t, 4, pair.A.Stats.Streaks[0].Count)
}

func TestPartnerID_Other(t *testing.T) {
	require.Equal(t, partner.PartnerB, partner.PartnerA.Other())
	require.Equal(t, partner.PartnerA, partner.PartnerB.Other())
	require.False(t, partner.PartnerID("partner-c").Valid())
}
