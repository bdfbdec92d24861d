package repository

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"
)

// Accuracy aggregates are derived, read-only views over stored predictions.
// Empty seasons produce an empty report, never an error.

// AccuracyReport aggregates evaluated predictions for a season: overall
// model accuracy, the reference poll's accuracy on comparable games, the
// disagreement set, and per-week/per-tier breakdowns.
func (r *PredictionRepository) AccuracyReport(ctx context.Context, season int) (*models.AccuracyReport, error) {
	report := &models.AccuracyReport{Season: season}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE p.was_correct IS NOT NULL),
			COUNT(*) FILTER (WHERE p.was_correct = TRUE),
			COUNT(*) FILTER (WHERE p.poll_correct IS NOT NULL),
			COUNT(*) FILTER (WHERE p.poll_correct = TRUE),
			COUNT(*) FILTER (WHERE p.was_correct IS NOT NULL
				AND p.poll_winner_id IS NOT NULL
				AND p.poll_winner_id <> p.predicted_winner_id),
			COUNT(*) FILTER (WHERE p.was_correct = TRUE
				AND p.poll_winner_id IS NOT NULL
				AND p.poll_winner_id <> p.predicted_winner_id)
		FROM predictions p
		JOIN games g ON g.id = p.game_id
		WHERE g.season = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, season).Scan(
		&report.Model.Evaluated, &report.Model.Correct,
		&report.Poll.Evaluated, &report.Poll.Correct,
		&report.Disagreements, &report.DisagreementsWon,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate accuracy: %w", err)
	}

	fillAccuracy(&report.Model)
	fillAccuracy(&report.Poll)

	byWeek, err := r.accuracyByWeek(ctx, season)
	if err != nil {
		return nil, err
	}
	report.ByWeek = byWeek

	byTier, err := r.accuracyByTier(ctx, season)
	if err != nil {
		return nil, err
	}
	report.ByTier = byTier

	return report, nil
}

func (r *PredictionRepository) accuracyByWeek(ctx context.Context, season int) ([]models.WeekAccuracy, error) {
	query := `
		SELECT g.week,
			COUNT(*) FILTER (WHERE p.was_correct IS NOT NULL),
			COUNT(*) FILTER (WHERE p.was_correct = TRUE)
		FROM predictions p
		JOIN games g ON g.id = p.game_id
		WHERE g.season = $1 AND p.was_correct IS NOT NULL
		GROUP BY g.week
		ORDER BY g.week
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate accuracy by week: %w", err)
	}
	defer rows.Close()

	var weeks []models.WeekAccuracy
	for rows.Next() {
		var wa models.WeekAccuracy
		if err := rows.Scan(&wa.Week, &wa.Model.Evaluated, &wa.Model.Correct); err != nil {
			return nil, fmt.Errorf("failed to scan week accuracy: %w", err)
		}
		fillAccuracy(&wa.Model)
		weeks = append(weeks, wa)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating week accuracy: %w", err)
	}

	return weeks, nil
}

func (r *PredictionRepository) accuracyByTier(ctx context.Context, season int) ([]models.TierAccuracy, error) {
	query := `
		SELECT t.tier,
			COUNT(*) FILTER (WHERE p.was_correct IS NOT NULL),
			COUNT(*) FILTER (WHERE p.was_correct = TRUE)
		FROM predictions p
		JOIN games g ON g.id = p.game_id
		JOIN teams t ON t.id = g.home_team_id
		WHERE g.season = $1 AND p.was_correct IS NOT NULL
		GROUP BY t.tier
		ORDER BY t.tier
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate accuracy by tier: %w", err)
	}
	defer rows.Close()

	var tiers []models.TierAccuracy
	for rows.Next() {
		var ta models.TierAccuracy
		if err := rows.Scan(&ta.Tier, &ta.Model.Evaluated, &ta.Model.Correct); err != nil {
			return nil, fmt.Errorf("failed to scan tier accuracy: %w", err)
		}
		fillAccuracy(&ta.Model)
		tiers = append(tiers, ta)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tier accuracy: %w", err)
	}

	return tiers, nil
}

func fillAccuracy(b *models.AccuracyBucket) {
	if b.Evaluated > 0 {
		b.Accuracy = float64(b.Correct) / float64(b.Evaluated)
	}
}
