package repository

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const predictionColumns = `
	id, game_id, predicted_winner_id, predicted_home_score, predicted_away_score,
	win_probability, home_rating, away_rating, was_correct,
	poll_winner_id, poll_correct, created_at`

// PredictionRepository handles prediction database operations. The unique
// constraint on game_id is the hard guarantee that at most one prediction
// exists per game.
type PredictionRepository struct {
	db *Database
}

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	var pred models.Prediction
	err := row.Scan(
		&pred.ID, &pred.GameID, &pred.PredictedWinnerID,
		&pred.PredictedHomeScore, &pred.PredictedAwayScore,
		&pred.WinProbability, &pred.HomeRating, &pred.AwayRating,
		&pred.WasCorrect, &pred.PollWinnerID, &pred.PollCorrect,
		&pred.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pred, nil
}

// CreatePrediction inserts a new prediction
func (r *PredictionRepository) CreatePrediction(ctx context.Context, pred *models.Prediction) error {
	if pred == nil {
		return fmt.Errorf("prediction cannot be nil")
	}
	if err := validatePredictionData(pred); err != nil {
		return fmt.Errorf("prediction validation failed: %w", err)
	}

	query := `
		INSERT INTO predictions (
			game_id, predicted_winner_id, predicted_home_score, predicted_away_score,
			win_probability, home_rating, away_rating, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		pred.GameID, pred.PredictedWinnerID,
		pred.PredictedHomeScore, pred.PredictedAwayScore,
		pred.WinProbability, pred.HomeRating, pred.AwayRating,
		pred.CreatedAt,
	).Scan(&pred.ID)

	if err != nil {
		log.Error().Err(err).Int("game_id", pred.GameID).Msg("Failed to insert prediction")
		return fmt.Errorf("failed to create prediction: %w", err)
	}

	log.Debug().Int("id", pred.ID).Int("game_id", pred.GameID).Msg("Prediction created")
	return nil
}

// GetPredictionByGameID retrieves the prediction for a game. Returns nil
// when none exists.
func (r *PredictionRepository) GetPredictionByGameID(ctx context.Context, gameID int) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE game_id = $1`

	pred, err := scanPrediction(r.db.Pool.QueryRow(ctx, query, gameID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return pred, nil
}

// ListPredictionsByWeek retrieves predictions for a season and week
func (r *PredictionRepository) ListPredictionsByWeek(ctx context.Context, season, week int) ([]*models.Prediction, error) {
	query := `
		SELECT p.id, p.game_id, p.predicted_winner_id, p.predicted_home_score, p.predicted_away_score,
		       p.win_probability, p.home_rating, p.away_rating, p.was_correct,
		       p.poll_winner_id, p.poll_correct, p.created_at
		FROM predictions p
		JOIN games g ON g.id = p.game_id
		WHERE g.season = $1 AND g.week = $2
		ORDER BY g.game_date
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var preds []*models.Prediction
	for rows.Next() {
		pred, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		preds = append(preds, pred)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return preds, nil
}

// SetOutcome writes was_correct and the poll comparison for a prediction.
// The was_correct guard makes evaluation write-once: an evaluated prediction
// never changes.
func (r *PredictionRepository) SetOutcome(ctx context.Context, predictionID int, wasCorrect bool, pollWinnerID *int, pollCorrect *bool) error {
	query := `
		UPDATE predictions
		SET was_correct = $2, poll_winner_id = $3, poll_correct = $4
		WHERE id = $1 AND was_correct IS NULL
	`

	result, err := r.db.Pool.Exec(ctx, query, predictionID, wasCorrect, pollWinnerID, pollCorrect)
	if err != nil {
		return fmt.Errorf("failed to set prediction outcome: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("prediction not found or already evaluated: id=%d", predictionID)
	}

	return nil
}

// ListUnpredictedGames retrieves scheduled games that don't have predictions yet
func (r *GameRepository) ListUnpredictedGames(ctx context.Context, season int) ([]*models.Game, error) {
	query := `
		SELECT g.id, g.season, g.week, g.home_team_id, g.away_team_id,
		       g.home_team_code, g.away_team_code, g.game_date, g.neutral_site, g.status,
		       g.home_score, g.away_score,
		       g.rating_processed, g.home_rating_delta, g.away_rating_delta,
		       g.created_at, g.updated_at
		FROM games g
		LEFT JOIN predictions p ON g.id = p.game_id
		WHERE p.id IS NULL
		  AND g.season = $1
		  AND g.status = $2
		ORDER BY g.game_date ASC
	`

	games, err := r.queryGames(ctx, query, season, models.StatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpredicted games: %w", err)
	}

	log.Debug().Int("count", len(games)).Msg("Unpredicted games retrieved")
	return games, nil
}

// validatePredictionData ensures prediction data is valid before insertion
func validatePredictionData(pred *models.Prediction) error {
	if pred.GameID <= 0 {
		return fmt.Errorf("game_id must be positive")
	}
	if pred.PredictedWinnerID <= 0 {
		return fmt.Errorf("predicted_winner_id must be positive")
	}
	if pred.PredictedHomeScore < 0 || pred.PredictedAwayScore < 0 {
		return fmt.Errorf("predicted scores must be non-negative")
	}
	if pred.WinProbability < 0.5 || pred.WinProbability > 1.0 {
		return fmt.Errorf("win_probability must be between 0.5 and 1 for the predicted winner")
	}
	if pred.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is required")
	}
	return nil
}
