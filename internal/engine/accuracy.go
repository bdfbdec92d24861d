package engine

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/metrics"
	"cfbrank/engine/internal/models"

	"github.com/rs/zerolog/log"
)

// Evaluator reconciles stored predictions with actual results. It runs
// immediately after a game is processed and writes was_correct exactly once.
// It also records what the reference poll would have picked for the matchup
// so model-vs-poll accuracy can be compared.
type Evaluator struct {
	preds PredictionStore
	polls PollStore
}

// NewEvaluator creates an accuracy evaluator using the given stores.
func NewEvaluator(preds PredictionStore, polls PollStore) *Evaluator {
	return &Evaluator{preds: preds, polls: polls}
}

// Evaluate scores the stored prediction for a processed game. A game with no
// prediction, or one already evaluated, is a no-op.
func (e *Evaluator) Evaluate(ctx context.Context, game *models.Game) error {
	if !game.RatingProcessed {
		return fmt.Errorf("game %d has not been processed", game.ID)
	}

	pred, err := e.preds.GetPredictionByGameID(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to load prediction for game %d: %w", game.ID, err)
	}
	if pred == nil {
		log.Debug().Int("game_id", game.ID).Msg("No prediction to evaluate")
		return nil
	}
	if pred.Evaluated() {
		log.Debug().Int("game_id", game.ID).Msg("Prediction already evaluated")
		return nil
	}

	actualWinner := game.WinnerID()
	wasCorrect := pred.PredictedWinnerID == actualWinner

	pollWinnerID, pollCorrect := e.pollPick(ctx, game, actualWinner)

	if err := e.preds.SetOutcome(ctx, pred.ID, wasCorrect, pollWinnerID, pollCorrect); err != nil {
		return fmt.Errorf("failed to store evaluation for game %d: %w", game.ID, err)
	}

	metrics.RecordPredictionEvaluated(wasCorrect)
	log.Info().
		Int("game_id", game.ID).
		Bool("was_correct", wasCorrect).
		Msg("Prediction evaluated")

	return nil
}

// pollPick derives the reference poll's implied winner for the matchup using
// the rankings of the game's week: the better-ranked side wins, a single
// ranked side beats an unranked one, and equal ranks or two unranked teams
// produce no comparable pick. Poll lookup failures degrade to no pick.
func (e *Evaluator) pollPick(ctx context.Context, game *models.Game, actualWinner int) (*int, *bool) {
	homeRank, homeRanked, err := e.polls.GetPollRank(ctx, game.HomeTeamID, game.Season, game.Week)
	if err != nil {
		log.Warn().Err(err).Int("game_id", game.ID).Msg("Failed to look up home poll rank")
		return nil, nil
	}
	awayRank, awayRanked, err := e.polls.GetPollRank(ctx, game.AwayTeamID, game.Season, game.Week)
	if err != nil {
		log.Warn().Err(err).Int("game_id", game.ID).Msg("Failed to look up away poll rank")
		return nil, nil
	}

	var winner int
	switch {
	case homeRanked && awayRanked && homeRank < awayRank:
		winner = game.HomeTeamID
	case homeRanked && awayRanked && awayRank < homeRank:
		winner = game.AwayTeamID
	case homeRanked && !awayRanked:
		winner = game.HomeTeamID
	case awayRanked && !homeRanked:
		winner = game.AwayTeamID
	default:
		// Equal ranks or both unranked: excluded from the comparison.
		return nil, nil
	}

	correct := winner == actualWinner
	return &winner, &correct
}
