package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fairdeck/fairdeck/internal/domain/partner"
	"github.com/fairdeck/fairdeck/internal/repository"
)

func testPartner(id partner.PartnerID) *partner.Partner {
	return &partner.Partner{
		ID:          id,
		HouseholdID: "house1",
		Name:        "Alex",
		Preferences: partner.Preferences{
			StrongSuits: []string{"home"},
			Availability: partner.Schedule{
				"monday": {Available: true, Hours: []partner.HourRange{{Start: 18, End: 21}}},
			},
		},
		Theme: partner.Theme{Color: "#7c9e6f", Pattern: "solid"},
	}
}

func TestPartnerRepository_UpsertGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewPartnerRepository(db)
	p := testPartner(partner.PartnerA)
	require.NoError(t, repo.Upsert(ctx, "house1", p))

	loaded, err := repo.Get(ctx, "house1", partner.PartnerA)
	require.NoError(t, err)
	require.Equal(t, "Alex", loaded.Name)
	require.Equal(t, []string{"home"}, loaded.Preferences.StrongSuits)
	require.Equal(t, "#7c9e6f", loaded.Theme.Color)
	require.True(t, loaded.Preferences.Availability["monday"].Available)

	// Upsert replaces the row
	p.Name = "Alexandra"
	p.Preferences.StrongSuits = []string{"home", "kids"}
	require.NoError(t, repo.Upsert(ctx, "house1", p))

	loaded, err = repo.Get(ctx, "house1", partner.PartnerA)
	require.NoError(t, err)
	require.Equal(t, "Alexandra", loaded.Name)
	require.Equal(t, []string{"home", "kids"}, loaded.Preferences.StrongSuits)
}

func TestPartnerRepository_GetMissing(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewPartnerRepository(db)
	_, err := repo.Get(ctx, "house1", partner.PartnerA)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestPartnerRepository_ListOrder(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewPartnerRepository(db)
	b := testPartner(partner.PartnerB)
	b.Name = "Sam"
	require.NoError(t, repo.Upsert(ctx, "house1", b))
	require.NoError(t, repo.Upsert(ctx, "house1", testPartner(partner.PartnerA)))

	partners, err := repo.List(ctx, "house1")
	require.NoError(t, err)
	require.Len(t, partners, 2)
	require.Equal(t, partner.PartnerA, partners[0].ID)
	require.Equal(t, partner.PartnerB, partners[1].ID)
}

func TestPartnerRepository_UpdateStats(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewPartnerRepository(db)
	require.NoError(t, repo.Upsert(ctx, "house1", testPartner(partner.PartnerA)))

	stats := partner.Stats{CurrentCards: 4, TotalTimeCommitment: 95}
	require.NoError(t, repo.UpdateStats(ctx, "house1", partner.PartnerA, stats))

	loaded, err := repo.Get(ctx, "house1", partner.PartnerA)
	require.NoError(t, err)
	require.Equal(t, 4, loaded.Stats.CurrentCards)
	require.Equal(t, 95, loaded.Stats.TotalTimeCommitment)

	err = repo.UpdateStats(ctx, "house1", partner.PartnerB, stats)
	require.Equal(t, repository.ErrNotFound, err)
}
