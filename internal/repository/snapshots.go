package repository

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"

	"github.com/rs/zerolog/log"
)

// SnapshotRepository handles ranking snapshot database operations. Snapshots
// are write-once: inserts conflict-ignore so an existing (team, season, week)
// row is never overwritten.
type SnapshotRepository struct {
	db *Database
}

// SaveSnapshots inserts a batch of weekly snapshots in one transaction.
// Rows already present for the same (team, season, week) stay untouched.
func (r *SnapshotRepository) SaveSnapshots(ctx context.Context, snaps []*models.RankingSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO ranking_snapshots (
			team_id, team_code, season, week, rank, rating, wins, losses, sos, sos_rank
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (team_id, season, week) DO NOTHING
	`

	for _, snap := range snaps {
		if _, err := tx.Exec(ctx, query,
			snap.TeamID, snap.TeamCode, snap.Season, snap.Week,
			snap.Rank, snap.Rating, snap.Wins, snap.Losses,
			snap.SOS, snap.SOSRank,
		); err != nil {
			return fmt.Errorf("failed to insert snapshot for team %d: %w", snap.TeamID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshots: %w", err)
	}

	log.Debug().Int("count", len(snaps)).Msg("Snapshots saved")
	return nil
}

// ListSnapshotsByTeam returns a team's snapshots for a season in week order
func (r *SnapshotRepository) ListSnapshotsByTeam(ctx context.Context, teamID, season int) ([]*models.RankingSnapshot, error) {
	query := `
		SELECT id, team_id, team_code, season, week, rank, rating, wins, losses, sos, sos_rank, created_at
		FROM ranking_snapshots
		WHERE team_id = $1 AND season = $2
		ORDER BY week
	`

	rows, err := r.db.Pool.Query(ctx, query, teamID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*models.RankingSnapshot
	for rows.Next() {
		var snap models.RankingSnapshot
		err := rows.Scan(
			&snap.ID, &snap.TeamID, &snap.TeamCode, &snap.Season, &snap.Week,
			&snap.Rank, &snap.Rating, &snap.Wins, &snap.Losses,
			&snap.SOS, &snap.SOSRank, &snap.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snaps = append(snaps, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snaps, nil
}

// ListSnapshotsByWeek returns a full week's snapshot in rank order
func (r *SnapshotRepository) ListSnapshotsByWeek(ctx context.Context, season, week int) ([]*models.RankingSnapshot, error) {
	query := `
		SELECT id, team_id, team_code, season, week, rank, rating, wins, losses, sos, sos_rank, created_at
		FROM ranking_snapshots
		WHERE season = $1 AND week = $2
		ORDER BY rank
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*models.RankingSnapshot
	for rows.Next() {
		var snap models.RankingSnapshot
		err := rows.Scan(
			&snap.ID, &snap.TeamID, &snap.TeamCode, &snap.Season, &snap.Week,
			&snap.Rank, &snap.Rating, &snap.Wins, &snap.Losses,
			&snap.SOS, &snap.SOSRank, &snap.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snaps = append(snaps, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snaps, nil
}
