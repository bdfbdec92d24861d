package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cfbrank/engine/internal/metrics"
	"cfbrank/engine/internal/models"

	"github.com/rs/zerolog/log"
)

// RankedTeam is one row of a computed ranking: a team with its rank and
// schedule-strength context.
type RankedTeam struct {
	Team    *models.Team `json:"team"`
	Rank    int          `json:"rank"`
	SOS     float64      `json:"sos"`
	SOSRank int          `json:"sos_rank"`
}

// Snapshotter orders all teams by current rating and persists immutable
// weekly snapshots. It never mutates team or game state.
type Snapshotter struct {
	teams TeamStore
	snaps SnapshotStore
	sos   *SOSCalculator
}

// NewSnapshotter creates a snapshot service using the given stores.
func NewSnapshotter(teams TeamStore, snaps SnapshotStore, sos *SOSCalculator) *Snapshotter {
	return &Snapshotter{teams: teams, snaps: snaps, sos: sos}
}

// Rank computes the current ordering for a season: rating descending, ties
// broken by SOS descending, then win percentage.
func (s *Snapshotter) Rank(ctx context.Context, season, asOfWeek int) ([]*RankedTeam, error) {
	teams, err := s.teams.ListTeams(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	sos, err := s.sos.SOSAll(ctx, season, asOfWeek)
	if err != nil {
		return nil, err
	}

	ranked := make([]*RankedTeam, 0, len(teams))
	for _, t := range teams {
		ranked = append(ranked, &RankedTeam{Team: t, SOS: sos[t.ID]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Team.Rating != b.Team.Rating {
			return a.Team.Rating > b.Team.Rating
		}
		if a.SOS != b.SOS {
			return a.SOS > b.SOS
		}
		return a.Team.WinPct() > b.Team.WinPct()
	})
	for i, rt := range ranked {
		rt.Rank = i + 1
	}

	// SOS rank is a separate ordering over the same rows.
	bySOS := make([]*RankedTeam, len(ranked))
	copy(bySOS, ranked)
	sort.SliceStable(bySOS, func(i, j int) bool {
		return bySOS[i].SOS > bySOS[j].SOS
	})
	for i, rt := range bySOS {
		rt.SOSRank = i + 1
	}

	return ranked, nil
}

// Snapshot computes the current ranking and persists one immutable record
// per team for the week. Re-running for the same week leaves the existing
// snapshots untouched.
func (s *Snapshotter) Snapshot(ctx context.Context, season, week int) ([]*models.RankingSnapshot, error) {
	start := time.Now()

	ranked, err := s.Rank(ctx, season, week)
	if err != nil {
		return nil, err
	}

	snaps := make([]*models.RankingSnapshot, 0, len(ranked))
	for _, rt := range ranked {
		snaps = append(snaps, &models.RankingSnapshot{
			TeamID:   rt.Team.ID,
			TeamCode: rt.Team.TeamCode,
			Season:   season,
			Week:     week,
			Rank:     rt.Rank,
			Rating:   rt.Team.Rating,
			Wins:     rt.Team.Wins,
			Losses:   rt.Team.Losses,
			SOS:      rt.SOS,
			SOSRank:  rt.SOSRank,
		})
	}

	if err := s.snaps.SaveSnapshots(ctx, snaps); err != nil {
		return nil, fmt.Errorf("failed to save snapshots: %w", err)
	}

	metrics.RecordSnapshotRun(len(snaps), time.Since(start).Seconds())
	log.Info().
		Int("season", season).
		Int("week", week).
		Int("teams", len(snaps)).
		Dur("duration", time.Since(start)).
		Msg("Ranking snapshot written")

	return snaps, nil
}
