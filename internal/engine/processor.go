// Package engine wires the rating math to persistence: game processing,
// strength of schedule, weekly snapshots, predictions and accuracy
// evaluation. All mutation funnels through here in strict chronological
// order; everything else is a read-only view.
package engine

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/metrics"
	"cfbrank/engine/internal/models"
	"cfbrank/engine/internal/rating"

	"github.com/rs/zerolog/log"
)

// ProcessResult reports the rating movement applied by one processed game.
type ProcessResult struct {
	GameID    int
	WinnerID  int
	LoserID   int
	HomeDelta float64
	AwayDelta float64
}

// GameProcessor is the rating-update state machine. A game moves from
// Scheduled to processed exactly once; processing is path-dependent, so
// games must arrive in non-decreasing (season, week, game_date) order and
// anything earlier is rejected rather than applied.
type GameProcessor struct {
	teams  TeamStore
	games  GameStore
	params rating.Params
}

// NewGameProcessor creates a processor using the given stores and parameters.
func NewGameProcessor(teams TeamStore, games GameStore, params rating.Params) *GameProcessor {
	return &GameProcessor{teams: teams, games: games, params: params}
}

// Process validates and processes one finalized game, committing both rating
// deltas, the win/loss increments and the processed flag in one transaction.
// Returns InvalidGameError or OutOfOrderError without touching any state.
func (p *GameProcessor) Process(ctx context.Context, gameID int) (*ProcessResult, error) {
	game, err := p.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	if game == nil {
		return nil, &InvalidGameError{GameID: gameID, Reason: "game not found"}
	}

	if err := p.validate(game); err != nil {
		metrics.RecordError("processor", "invalid_game")
		return nil, err
	}

	home, err := p.teams.GetTeam(ctx, game.HomeTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load home team %d: %w", game.HomeTeamID, err)
	}
	away, err := p.teams.GetTeam(ctx, game.AwayTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load away team %d: %w", game.AwayTeamID, err)
	}
	if home == nil || away == nil {
		metrics.RecordError("processor", "invalid_game")
		return nil, &InvalidGameError{GameID: game.ID, Reason: "missing team reference"}
	}

	if err := p.checkOrdering(ctx, game); err != nil {
		metrics.RecordError("processor", "out_of_order")
		return nil, err
	}

	homeDelta := p.computeHomeDelta(game, home, away)

	result := &ProcessResult{
		GameID:    game.ID,
		WinnerID:  game.WinnerID(),
		LoserID:   game.LoserID(),
		HomeDelta: homeDelta,
		AwayDelta: -homeDelta,
	}

	if err := p.games.ApplyGameResult(ctx, game, result.HomeDelta, result.AwayDelta, result.WinnerID); err != nil {
		metrics.RecordError("processor", "commit_failed")
		return nil, fmt.Errorf("failed to commit game result: %w", err)
	}

	metrics.RecordGameProcessed(result.HomeDelta)
	log.Info().
		Int("game_id", game.ID).
		Int("season", game.Season).
		Int("week", game.Week).
		Str("home", game.HomeTeamCode).
		Str("away", game.AwayTeamCode).
		Float64("home_delta", result.HomeDelta).
		Float64("away_delta", result.AwayDelta).
		Msg("Game processed")

	return result, nil
}

// ProcessPending processes all completed, unprocessed games for a season in
// chronological order. Stops on the first failure so a bad game never lets
// later games process out of order.
func (p *GameProcessor) ProcessPending(ctx context.Context, season int) ([]*ProcessResult, error) {
	pending, err := p.games.ListFinalUnprocessed(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending games: %w", err)
	}

	var results []*ProcessResult
	for _, game := range pending {
		res, err := p.Process(ctx, game.ID)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	log.Info().Int("season", season).Int("count", len(results)).Msg("Pending games processed")
	return results, nil
}

func (p *GameProcessor) validate(game *models.Game) error {
	if game.RatingProcessed {
		return &InvalidGameError{GameID: game.ID, Reason: "game already processed"}
	}
	if !game.IsFinal() {
		return &InvalidGameError{GameID: game.ID, Reason: "game has not been played"}
	}
	if game.Week < 0 || game.Week > p.params.MaxWeek {
		return &InvalidGameError{GameID: game.ID, Reason: fmt.Sprintf("week %d outside season range", game.Week)}
	}
	if game.HomeTeamID == 0 || game.AwayTeamID == 0 {
		return &InvalidGameError{GameID: game.ID, Reason: "missing team reference"}
	}
	if game.Margin() == 0 {
		return &InvalidGameError{GameID: game.ID, Reason: "tie game has no winner"}
	}
	return nil
}

// checkOrdering rejects a game that predates the latest processed game for
// either team. Equal weeks compare on game date.
func (p *GameProcessor) checkOrdering(ctx context.Context, game *models.Game) error {
	for _, teamID := range []int{game.HomeTeamID, game.AwayTeamID} {
		last, err := p.games.LatestProcessed(ctx, game.Season, teamID)
		if err != nil {
			return fmt.Errorf("failed to check processing order for team %d: %w", teamID, err)
		}
		if last == nil {
			continue
		}
		if game.Week < last.Week || (game.Week == last.Week && game.GameDate.Before(last.GameDate)) {
			return &OutOfOrderError{
				GameID:   game.ID,
				TeamID:   teamID,
				Week:     game.Week,
				LastWeek: last.Week,
			}
		}
	}
	return nil
}

// computeHomeDelta returns the home team's rating delta; the away delta is
// its negation.
func (p *GameProcessor) computeHomeDelta(game *models.Game, home, away *models.Team) float64 {
	expectedHome := p.params.ExpectedHomeWin(home.Rating, away.Rating, game.NeutralSite)
	margin := game.Margin()

	if margin > 0 {
		delta := p.params.Delta(margin, expectedHome, home.Tier, away.Tier, home.Rating, away.Rating)
		return delta
	}
	delta := p.params.Delta(margin, 1-expectedHome, away.Tier, home.Tier, away.Rating, home.Rating)
	return -delta
}
