package engine

import (
	"context"

	"cfbrank/engine/internal/models"
)

// The engine talks to persistence through these narrow interfaces. The pgx
// repositories in internal/repository implement them for production; tests
// run against an in-memory fixture. Keeping the rating store behind an
// interface is what makes the processor deterministic to unit test.

// TeamStore provides access to team rating state. The engine is the only
// writer of ratings: seeds go through SetInitialRating, game updates go
// through GameStore.ApplyGameResult.
type TeamStore interface {
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context, season int) ([]*models.Team, error)

	// SetInitialRating seeds a team's rating and initial_rating in one
	// write. With reset false it must be a no-op for an already-seeded
	// team, never an implicit overwrite.
	SetInitialRating(ctx context.Context, teamID int, seed float64, reset bool) error
}

// GameStore provides access to games and commits processing results.
type GameStore interface {
	GetGame(ctx context.Context, id int) (*models.Game, error)

	// ListProcessed returns processed games for a season through the given
	// week, ordered chronologically. A negative teamID means all teams.
	ListProcessed(ctx context.Context, season, teamID, throughWeek int) ([]*models.Game, error)

	// ListFinalUnprocessed returns completed games awaiting rating
	// processing, ordered by (week, game_date).
	ListFinalUnprocessed(ctx context.Context, season int) ([]*models.Game, error)

	// ListScheduled returns upcoming games for a week.
	ListScheduled(ctx context.Context, season, week int) ([]*models.Game, error)

	// LatestProcessed returns the most recently processed game involving the
	// team, or nil when none exists.
	LatestProcessed(ctx context.Context, season, teamID int) (*models.Game, error)

	// ApplyGameResult commits one processed game in a single transaction:
	// both team ratings move by their deltas, win/loss counts increment,
	// and the game's deltas and processed flag are written. A failure
	// leaves no partial state.
	ApplyGameResult(ctx context.Context, game *models.Game, homeDelta, awayDelta float64, winnerID int) error
}

// SnapshotStore persists and reads immutable weekly ranking snapshots.
type SnapshotStore interface {
	SaveSnapshots(ctx context.Context, snaps []*models.RankingSnapshot) error
	ListSnapshotsByTeam(ctx context.Context, teamID, season int) ([]*models.RankingSnapshot, error)
}

// PredictionStore persists predictions and their one-time evaluation.
type PredictionStore interface {
	CreatePrediction(ctx context.Context, pred *models.Prediction) error

	// GetPredictionByGameID returns nil, nil when no prediction exists.
	GetPredictionByGameID(ctx context.Context, gameID int) (*models.Prediction, error)

	ListPredictionsByWeek(ctx context.Context, season, week int) ([]*models.Prediction, error)

	// SetOutcome writes was_correct and the poll comparison exactly once.
	SetOutcome(ctx context.Context, predictionID int, wasCorrect bool, pollWinnerID *int, pollCorrect *bool) error
}

// PollStore reads the external reference poll.
type PollStore interface {
	// GetPollRank returns the team's rank for the week and whether the team
	// was ranked at all.
	GetPollRank(ctx context.Context, teamID, season, week int) (int, bool, error)
}

// ReportStore serves read-only accuracy aggregates. Empty result sets
// produce empty aggregates, never errors.
type ReportStore interface {
	AccuracyReport(ctx context.Context, season int) (*models.AccuracyReport, error)
}
