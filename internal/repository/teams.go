package repository

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations. It is the persistence
// side of the engine's TeamStore: ratings are only written here through
// SetInitialRating and the game-result transaction in GameRepository.
type TeamRepository struct {
	db *Database
}

// Upsert inserts or updates a team (for the season import)
func (r *TeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (
			team_code, school_name, conference, tier, season,
			recruiting_rank, transfer_signal, returning_production, rating
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (team_code, season) DO UPDATE SET
			school_name = EXCLUDED.school_name,
			conference = EXCLUDED.conference,
			tier = EXCLUDED.tier,
			recruiting_rank = EXCLUDED.recruiting_rank,
			transfer_signal = EXCLUDED.transfer_signal,
			returning_production = EXCLUDED.returning_production,
			updated_at = NOW()
		RETURNING id, rating, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		team.TeamCode, team.SchoolName, team.Conference, team.Tier, team.Season,
		team.RecruitingRank, team.TransferSignal, team.ReturningProduction, team.Rating,
	).Scan(&team.ID, &team.Rating, &team.CreatedAt, &team.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	return nil
}

// GetTeam retrieves a team by its database ID. Returns nil when not found.
func (r *TeamRepository) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, team_code, school_name, conference, tier, season,
		       recruiting_rank, transfer_signal, returning_production,
		       rating, initial_rating, wins, losses, created_at, updated_at
		FROM teams
		WHERE id = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&team.ID, &team.TeamCode, &team.SchoolName, &team.Conference, &team.Tier, &team.Season,
		&team.RecruitingRank, &team.TransferSignal, &team.ReturningProduction,
		&team.Rating, &team.InitialRating, &team.Wins, &team.Losses,
		&team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// GetByTeamCode retrieves a team by its code within a season
func (r *TeamRepository) GetByTeamCode(ctx context.Context, teamCode string, season int) (*models.Team, error) {
	query := `
		SELECT id, team_code, school_name, conference, tier, season,
		       recruiting_rank, transfer_signal, returning_production,
		       rating, initial_rating, wins, losses, created_at, updated_at
		FROM teams
		WHERE team_code = $1 AND season = $2
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, teamCode, season).Scan(
		&team.ID, &team.TeamCode, &team.SchoolName, &team.Conference, &team.Tier, &team.Season,
		&team.RecruitingRank, &team.TransferSignal, &team.ReturningProduction,
		&team.Rating, &team.InitialRating, &team.Wins, &team.Losses,
		&team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: team_code=%s season=%d", teamCode, season)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// ListTeams retrieves all teams for a season
func (r *TeamRepository) ListTeams(ctx context.Context, season int) ([]*models.Team, error) {
	query := `
		SELECT id, team_code, school_name, conference, tier, season,
		       recruiting_rank, transfer_signal, returning_production,
		       rating, initial_rating, wins, losses, created_at, updated_at
		FROM teams
		WHERE season = $1
		ORDER BY school_name
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.ID, &team.TeamCode, &team.SchoolName, &team.Conference, &team.Tier, &team.Season,
			&team.RecruitingRank, &team.TransferSignal, &team.ReturningProduction,
			&team.Rating, &team.InitialRating, &team.Wins, &team.Losses,
			&team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// SetInitialRating seeds a team's rating and initial_rating in one write.
// Without reset it only applies to an unseeded team, so re-running the
// seeder never overwrites an existing seed. Reset also clears the record.
func (r *TeamRepository) SetInitialRating(ctx context.Context, teamID int, seed float64, reset bool) error {
	query := `
		UPDATE teams
		SET rating = $2, initial_rating = $2, updated_at = NOW()
		WHERE id = $1 AND initial_rating IS NULL
	`
	if reset {
		query = `
			UPDATE teams
			SET rating = $2, initial_rating = $2, wins = 0, losses = 0, updated_at = NOW()
			WHERE id = $1
		`
	}

	result, err := r.db.Pool.Exec(ctx, query, teamID, seed)
	if err != nil {
		return fmt.Errorf("failed to set initial rating: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug().Int("team_id", teamID).Msg("Team already seeded, initial rating unchanged")
	}

	return nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM teams`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}
