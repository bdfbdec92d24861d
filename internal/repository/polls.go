package repository

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PollRepository handles reference poll database operations. Poll entries
// are import-only data used by the accuracy evaluator for comparison.
type PollRepository struct {
	db *Database
}

// Upsert inserts or updates a poll entry (for the weekly poll import)
func (r *PollRepository) Upsert(ctx context.Context, entry *models.PollRanking) error {
	query := `
		INSERT INTO poll_rankings (team_id, season, week, rank)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id, season, week) DO UPDATE SET
			rank = EXCLUDED.rank
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		entry.TeamID, entry.Season, entry.Week, entry.Rank,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert poll ranking: %w", err)
	}

	log.Debug().
		Int("team_id", entry.TeamID).
		Int("week", entry.Week).
		Int("rank", entry.Rank).
		Msg("Poll ranking saved")

	return nil
}

// GetPollRank returns a team's poll rank for a week and whether the team was
// ranked at all.
func (r *PollRepository) GetPollRank(ctx context.Context, teamID, season, week int) (int, bool, error) {
	query := `
		SELECT rank FROM poll_rankings
		WHERE team_id = $1 AND season = $2 AND week = $3
	`

	var rank int
	err := r.db.Pool.QueryRow(ctx, query, teamID, season, week).Scan(&rank)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get poll rank: %w", err)
	}

	return rank, true, nil
}

// ListByWeek returns the full poll for a week in rank order
func (r *PollRepository) ListByWeek(ctx context.Context, season, week int) ([]*models.PollRanking, error) {
	query := `
		SELECT id, team_id, season, week, rank, created_at
		FROM poll_rankings
		WHERE season = $1 AND week = $2
		ORDER BY rank
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to list poll rankings: %w", err)
	}
	defer rows.Close()

	var entries []*models.PollRanking
	for rows.Next() {
		var entry models.PollRanking
		if err := rows.Scan(&entry.ID, &entry.TeamID, &entry.Season, &entry.Week, &entry.Rank, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll ranking: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating poll rankings: %w", err)
	}

	return entries, nil
}
