package repository

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const gameColumns = `
	id, season, week, home_team_id, away_team_id,
	home_team_code, away_team_code, game_date, neutral_site, status,
	home_score, away_score,
	rating_processed, home_rating_delta, away_rating_delta,
	created_at, updated_at`

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID, &game.Season, &game.Week, &game.HomeTeamID, &game.AwayTeamID,
		&game.HomeTeamCode, &game.AwayTeamCode, &game.GameDate, &game.NeutralSite, &game.Status,
		&game.HomeScore, &game.AwayScore,
		&game.RatingProcessed, &game.HomeRatingDelta, &game.AwayRatingDelta,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *GameRepository) queryGames(ctx context.Context, query string, args ...any) ([]*models.Game, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// Create inserts a new game (fixture import). Rating state starts unprocessed.
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			season, week, home_team_id, away_team_id,
			home_team_code, away_team_code, game_date, neutral_site, status,
			home_score, away_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.Season, game.Week, game.HomeTeamID, game.AwayTeamID,
		game.HomeTeamCode, game.AwayTeamCode, game.GameDate, game.NeutralSite, game.Status,
		game.HomeScore, game.AwayScore,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	log.Debug().
		Int("id", game.ID).
		Str("home", game.HomeTeamCode).
		Str("away", game.AwayTeamCode).
		Msg("Game created")

	return nil
}

// SetFinalScore records a game's final score. It never touches rating state
// and refuses to change a game that was already processed.
func (r *GameRepository) SetFinalScore(ctx context.Context, gameID, homeScore, awayScore int) error {
	query := `
		UPDATE games
		SET home_score = $2, away_score = $3, status = $4, updated_at = NOW()
		WHERE id = $1 AND rating_processed = FALSE
	`

	result, err := r.db.Pool.Exec(ctx, query, gameID, homeScore, awayScore, models.StatusFinal)
	if err != nil {
		return fmt.Errorf("failed to set final score: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game not found or already processed: id=%d", gameID)
	}

	return nil
}

// GetGame retrieves a game by its database ID. Returns nil when not found.
func (r *GameRepository) GetGame(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// ListProcessed returns processed games for a season through the given week
// in chronological order. A negative teamID means all teams.
func (r *GameRepository) ListProcessed(ctx context.Context, season, teamID, throughWeek int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1 AND week <= $2 AND rating_processed = TRUE
		  AND ($3 < 0 OR home_team_id = $3 OR away_team_id = $3)
		ORDER BY week, game_date
	`

	games, err := r.queryGames(ctx, query, season, throughWeek, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed games: %w", err)
	}
	return games, nil
}

// ListFinalUnprocessed returns completed games awaiting rating processing,
// in the chronological order the processor requires.
func (r *GameRepository) ListFinalUnprocessed(ctx context.Context, season int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1 AND status = $2 AND rating_processed = FALSE
		ORDER BY week, game_date
	`

	games, err := r.queryGames(ctx, query, season, models.StatusFinal)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed games: %w", err)
	}
	return games, nil
}

// ListScheduled returns upcoming games for a week
func (r *GameRepository) ListScheduled(ctx context.Context, season, week int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1 AND week = $2 AND status = $3
		ORDER BY game_date
	`

	games, err := r.queryGames(ctx, query, season, week, models.StatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled games: %w", err)
	}
	return games, nil
}

// LatestProcessed returns the most recently processed game involving the
// team, or nil when the team has no processed games.
func (r *GameRepository) LatestProcessed(ctx context.Context, season, teamID int) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1 AND rating_processed = TRUE
		  AND (home_team_id = $2 OR away_team_id = $2)
		ORDER BY week DESC, game_date DESC
		LIMIT 1
	`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, season, teamID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest processed game: %w", err)
	}

	return game, nil
}

// ApplyGameResult commits one processed game atomically: both team ratings
// move by their deltas, win/loss counts increment, and the game's deltas and
// processed flag are written. Any failure rolls the whole update back so a
// rating can never move without the game being marked processed.
func (r *GameRepository) ApplyGameResult(ctx context.Context, game *models.Game, homeDelta, awayDelta float64, winnerID int) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Guard against concurrent double-processing at the persistence layer.
	result, err := tx.Exec(ctx, `
		UPDATE games
		SET rating_processed = TRUE,
		    home_rating_delta = $2,
		    away_rating_delta = $3,
		    updated_at = NOW()
		WHERE id = $1 AND rating_processed = FALSE
	`, game.ID, homeDelta, awayDelta)
	if err != nil {
		return fmt.Errorf("failed to mark game processed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("game already processed: id=%d", game.ID)
	}

	homeWon := winnerID == game.HomeTeamID
	if _, err := tx.Exec(ctx, `
		UPDATE teams
		SET rating = rating + $2,
		    wins = wins + $3,
		    losses = losses + $4,
		    updated_at = NOW()
		WHERE id = $1
	`, game.HomeTeamID, homeDelta, boolToInt(homeWon), boolToInt(!homeWon)); err != nil {
		return fmt.Errorf("failed to update home team rating: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE teams
		SET rating = rating + $2,
		    wins = wins + $3,
		    losses = losses + $4,
		    updated_at = NOW()
		WHERE id = $1
	`, game.AwayTeamID, awayDelta, boolToInt(!homeWon), boolToInt(homeWon)); err != nil {
		return fmt.Errorf("failed to update away team rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit game result: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM games`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}
