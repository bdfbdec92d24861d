package engine

import (
	"context"
	"database/sql"
	"testing"

	"cfbrank/engine/internal/models"
	"cfbrank/engine/internal/rating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(store *memStore) *Service {
	params := rating.DefaultParams()
	sos := NewSOSCalculator(store, store, params)
	return NewService(
		NewGameProcessor(store, store, params),
		NewPredictor(store, store, store, params),
		NewEvaluator(store, store),
		NewSnapshotter(store, store, sos),
		NewSeeder(store, params),
		store, store, store, store,
		nil, // no cache in tests
		0,
	)
}

func TestService_GameLifecycle(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	svc := newTestService(store)

	home := store.addTeam(1, "ORE", models.TierPower, 1680)
	away := store.addTeam(2, "WASH", models.TierPower, 1540)
	store.addScheduledGame(100, 5, home, away, false)

	// Predict, play, process: one call evaluates the prediction inline
	pred, err := svc.GeneratePrediction(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, home.ID, pred.PredictedWinnerID)

	g := store.games[100]
	g.Status = models.StatusFinal
	g.HomeScore = sql.NullInt32{Int32: 27, Valid: true}
	g.AwayScore = sql.NullInt32{Int32: 20, Valid: true}

	res, err := svc.ProcessGame(ctx, 100)
	require.NoError(t, err, "Processing a final game should succeed")
	assert.Equal(t, home.ID, res.WinnerID)

	stored, err := store.GetPredictionByGameID(ctx, 100)
	require.NoError(t, err)
	assert.True(t, stored.Evaluated(), "Processing should evaluate the stored prediction")
	assert.True(t, stored.WasCorrect.Bool, "Correct pick should be scored correct")

	report, err := svc.AccuracyReport(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Model.Evaluated, "Report should count the evaluated prediction")
	assert.Equal(t, 1, report.Model.Correct)
}

func TestService_RunPipeline_PartialBatchStillScored(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	svc := newTestService(store)

	home := store.addTeam(1, "MICH", models.TierPower, 1600)
	away := store.addTeam(2, "MSU", models.TierPower, 1500)
	c := store.addTeam(3, "PSU", models.TierPower, 1550)
	d := store.addTeam(4, "RUTG", models.TierPower, 1450)

	store.addScheduledGame(101, 1, home, away, false)
	_, err := svc.GeneratePrediction(ctx, 101)
	require.NoError(t, err)

	g := store.games[101]
	g.Status = models.StatusFinal
	g.HomeScore = sql.NullInt32{Int32: 31, Valid: true}
	g.AwayScore = sql.NullInt32{Int32: 17, Valid: true}

	// A tie later in the batch stops processing partway through.
	store.addFinalGame(102, 2, c, d, 21, 21, false)

	processed, err := svc.RunPipeline(ctx, 2025)
	require.Error(t, err, "The rejected game should surface as a pipeline error")
	assert.Equal(t, 1, processed)

	pred, err := store.GetPredictionByGameID(ctx, 101)
	require.NoError(t, err)
	require.True(t, pred.Evaluated(), "Games applied before the failure should still be scored")
	assert.True(t, pred.WasCorrect.Bool)

	snap := store.findSnapshot(home.ID, 2025, 1)
	require.NotNil(t, snap, "The applied week should still be snapshotted")

	later, err := store.GetGame(ctx, 102)
	require.NoError(t, err)
	assert.False(t, later.RatingProcessed, "The rejected game stays unprocessed")
}

func TestService_CurrentRankings(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	svc := newTestService(store)

	store.addTeam(1, "LOW", models.TierPower, 1480)
	store.addTeam(2, "TOP", models.TierPower, 1690)

	ranked, err := svc.CurrentRankings(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "TOP", ranked[0].Team.TeamCode, "Rankings should lead with the highest rating")
	assert.Equal(t, 1, ranked[0].Rank)
}

func TestService_RankingHistory(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	svc := newTestService(store)

	team := store.addTeam(1, "OSU", models.TierPower, 1600)
	store.addTeam(2, "B", models.TierPower, 1500)

	_, err := svc.Snapshotter.Snapshot(ctx, 2025, 1)
	require.NoError(t, err)
	store.teams[team.ID].Rating = 1650
	_, err = svc.Snapshotter.Snapshot(ctx, 2025, 2)
	require.NoError(t, err)

	history, err := svc.RankingHistory(ctx, team.ID, 2025)
	require.NoError(t, err)
	require.Len(t, history, 2, "History should hold one row per snapshotted week")
	assert.Equal(t, 1, history[0].Week)
	assert.Equal(t, 2, history[1].Week)
	assert.Less(t, history[0].Rating, history[1].Rating, "History should show the rating trajectory")
}
