package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cfbrank/engine/internal/metrics"
	"cfbrank/engine/internal/models"
	"cfbrank/engine/internal/rating"

	"github.com/rs/zerolog/log"
)

// Predictor generates pregame picks from current ratings. It uses the same
// win-expectation formula as the processor, and copies both teams' ratings
// into the prediction row so later rating drift never rewrites what was
// predicted.
type Predictor struct {
	teams  TeamStore
	games  GameStore
	preds  PredictionStore
	params rating.Params
}

// NewPredictor creates a prediction service using the given stores.
func NewPredictor(teams TeamStore, games GameStore, preds PredictionStore, params rating.Params) *Predictor {
	return &Predictor{teams: teams, games: games, preds: preds, params: params}
}

// Predict creates and stores the prediction for an upcoming game. Returns
// AlreadyPredictedError when a prediction exists, InvalidGameError when the
// game is missing or already played.
func (p *Predictor) Predict(ctx context.Context, gameID int) (*models.Prediction, error) {
	game, err := p.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	if game == nil {
		return nil, &InvalidGameError{GameID: gameID, Reason: "game not found"}
	}
	if game.RatingProcessed || game.IsFinal() {
		return nil, &InvalidGameError{GameID: gameID, Reason: "game already played"}
	}

	existing, err := p.preds.GetPredictionByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing prediction: %w", err)
	}
	if existing != nil {
		return nil, &AlreadyPredictedError{GameID: gameID}
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
		return nil, &InvalidGameError{GameID: gameID, Reason: "missing team reference"}
	}

	homeWin := p.params.ExpectedHomeWin(home.Rating, away.Rating, game.NeutralSite)
	winnerID, winProb := home.ID, homeWin
	if homeWin < 0.5 {
		winnerID, winProb = away.ID, 1-homeWin
	}
	homeScore, awayScore := p.params.PredictScores(home.Rating, away.Rating, game.NeutralSite)

	pred := &models.Prediction{
		GameID:             game.ID,
		PredictedWinnerID:  winnerID,
		PredictedHomeScore: homeScore,
		PredictedAwayScore: awayScore,
		WinProbability:     winProb,
		HomeRating:         home.Rating,
		AwayRating:         away.Rating,
		CreatedAt:          time.Now(),
	}

	if err := p.preds.CreatePrediction(ctx, pred); err != nil {
		return nil, fmt.Errorf("failed to store prediction: %w", err)
	}

	metrics.RecordPredictionCreated()
	log.Info().
		Int("game_id", game.ID).
		Str("home", game.HomeTeamCode).
		Str("away", game.AwayTeamCode).
		Int("predicted_winner", winnerID).
		Float64("win_probability", winProb).
		Int("predicted_margin", pred.PredictedMargin()).
		Msg("Prediction created")

	return pred, nil
}

// PredictWeek generates predictions for every scheduled game in a week,
// skipping games that already have one.
func (p *Predictor) PredictWeek(ctx context.Context, season, week int) ([]*models.Prediction, error) {
	games, err := p.games.ListScheduled(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled games: %w", err)
	}

	var preds []*models.Prediction
	for _, game := range games {
		pred, err := p.Predict(ctx, game.ID)
		if err != nil {
			var dup *AlreadyPredictedError
			if errors.As(err, &dup) {
				continue
			}
			return preds, err
		}
		preds = append(preds, pred)
	}

	log.Info().Int("season", season).Int("week", week).Int("count", len(preds)).Msg("Week predictions generated")
	return preds, nil
}
