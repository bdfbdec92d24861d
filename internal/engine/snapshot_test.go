package engine

import (
	"context"
	"testing"

	"cfbrank/engine/internal/models"
	"cfbrank/engine/internal/rating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshotter(store *memStore) *Snapshotter {
	sos := NewSOSCalculator(store, store, rating.DefaultParams())
	return NewSnapshotter(store, store, sos)
}

func TestRank_OrderAndTieBreaks(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	store.addTeam(1, "LOW", models.TierPower, 1450)
	store.addTeam(2, "TOP", models.TierPower, 1700)
	store.addTeam(3, "MID", models.TierPower, 1550)

	// Two teams tied on rating: the one with the harder schedule ranks higher
	tiedWeak := store.addTeam(4, "TIEW", models.TierPower, 1600)
	tiedStrong := store.addTeam(5, "TIES", models.TierPower, 1600)
	weakOpp := store.addTeam(6, "WOPP", models.TierFCS, 1200)
	strongOpp := store.addTeam(7, "SOPP", models.TierPower, 1680)

	g1 := store.addFinalGame(100, 1, tiedWeak, weakOpp, 30, 10, false)
	g2 := store.addFinalGame(101, 1, tiedStrong, strongOpp, 24, 20, false)
	g1.RatingProcessed = true
	g2.RatingProcessed = true

	ranked, err := newTestSnapshotter(store).Rank(ctx, 2025, 16)
	require.NoError(t, err)
	require.Len(t, ranked, 7, "Every team should appear exactly once")

	// Rating descending
	assert.Equal(t, "TOP", ranked[0].Team.TeamCode, "Highest rating should rank first")
	assert.Equal(t, 1, ranked[0].Rank, "Ranks should start at 1")
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Team.Rating, ranked[i].Team.Rating,
			"Ranking should be rating descending")
		assert.Equal(t, i+1, ranked[i].Rank, "Ranks should be contiguous")
	}

	// Tie broken by SOS
	var posWeak, posStrong int
	for _, rt := range ranked {
		switch rt.Team.ID {
		case tiedWeak.ID:
			posWeak = rt.Rank
		case tiedStrong.ID:
			posStrong = rt.Rank
		}
	}
	assert.Less(t, posStrong, posWeak, "Equal ratings should break on strength of schedule")

	// SOS rank is its own ordering
	bestSOS := 0
	for _, rt := range ranked {
		if rt.SOSRank == 1 {
			bestSOS = rt.Team.ID
		}
	}
	assert.Equal(t, tiedStrong.ID, bestSOS, "Hardest schedule should hold SOS rank 1")
}

func TestSnapshot_PersistsAndIsImmutable(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	a := store.addTeam(1, "A", models.TierPower, 1620)
	store.addTeam(2, "B", models.TierPower, 1480)

	snapper := newTestSnapshotter(store)
	snaps, err := snapper.Snapshot(ctx, 2025, 5)
	require.NoError(t, err)
	require.Len(t, snaps, 2, "One snapshot row per team")

	assert.Equal(t, "A", snaps[0].TeamCode, "Snapshot should be in rank order")
	assert.Equal(t, 1, snaps[0].Rank)
	assert.Equal(t, 5, snaps[0].Week)
	assert.InDelta(t, 1620.0, snaps[0].Rating, 1e-9, "Snapshot should capture the rating")

	// Ratings keep moving; the stored snapshot does not
	store.teams[a.ID].Rating = 1800
	_, err = snapper.Snapshot(ctx, 2025, 5)
	require.NoError(t, err, "Re-running the same week should not fail")

	history, err := store.ListSnapshotsByTeam(ctx, a.ID, 2025)
	require.NoError(t, err)
	require.Len(t, history, 1, "Re-running a week should not duplicate snapshots")
	assert.InDelta(t, 1620.0, history[0].Rating, 1e-9, "Existing snapshot should be untouched")

	// A later week records the new state alongside the old
	_, err = snapper.Snapshot(ctx, 2025, 6)
	require.NoError(t, err)
	history, err = store.ListSnapshotsByTeam(ctx, a.ID, 2025)
	require.NoError(t, err)
	require.Len(t, history, 2, "Each week should get its own snapshot")
	assert.InDelta(t, 1800.0, history[1].Rating, 1e-9, "New week should capture the current rating")
}
