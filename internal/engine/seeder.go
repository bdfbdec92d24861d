package engine

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"
	"cfbrank/engine/internal/rating"

	"github.com/rs/zerolog/log"
)

// Seeder runs the once-per-season preseason initialization, turning
// recruiting rank, transfer signal and returning production into each team's
// starting rating. An already-seeded team is skipped unless reset is
// requested; seeding never implicitly overwrites.
type Seeder struct {
	teams  TeamStore
	params rating.Params
}

// NewSeeder creates a preseason seeder using the given store.
func NewSeeder(teams TeamStore, params rating.Params) *Seeder {
	return &Seeder{teams: teams, params: params}
}

// SeedTeam seeds one team and returns its starting rating. No-op for an
// already-seeded team unless reset is true; the no-op returns the existing
// initial rating.
func (s *Seeder) SeedTeam(ctx context.Context, team *models.Team, reset bool) (float64, error) {
	if team.Seeded() && !reset {
		log.Debug().Str("team", team.TeamCode).Msg("Team already seeded, skipping")
		return team.InitialRating.Float64, nil
	}

	in := rating.SeedInput{TeamCode: team.TeamCode}
	if team.RecruitingRank.Valid {
		r := int(team.RecruitingRank.Int32)
		in.RecruitingRank = &r
	}
	if team.TransferSignal.Valid {
		t := team.TransferSignal.Float64
		in.TransferSignal = &t
	}
	if team.ReturningProduction.Valid {
		p := team.ReturningProduction.Float64
		in.ReturningProduction = &p
	}

	seed := s.params.SeedRating(in)
	if err := s.teams.SetInitialRating(ctx, team.ID, seed, reset); err != nil {
		return 0, fmt.Errorf("failed to seed team %s: %w", team.TeamCode, err)
	}

	log.Info().
		Str("team", team.TeamCode).
		Float64("seed", seed).
		Msg("Preseason rating seeded")
	return seed, nil
}

// SeedSeason seeds every team in the season. Already-seeded teams are left
// untouched unless reset is true.
func (s *Seeder) SeedSeason(ctx context.Context, season int, reset bool) (int, error) {
	teams, err := s.teams.ListTeams(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to list teams for season %d: %w", season, err)
	}

	seeded := 0
	for _, team := range teams {
		if team.Seeded() && !reset {
			continue
		}
		if _, err := s.SeedTeam(ctx, team, reset); err != nil {
			return seeded, err
		}
		seeded++
	}

	log.Info().Int("season", season).Int("count", seeded).Msg("Preseason seeding complete")
	return seeded, nil
}
