package engine

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/rating"
)

// SOSCalculator derives strength of schedule: the mean of the *current*
// ratings of every opponent a team has played. It is a live metric: an
// opponent improving later in the season raises the SOS of everyone who
// played it.
type SOSCalculator struct {
	teams  TeamStore
	games  GameStore
	params rating.Params
}

// NewSOSCalculator creates a calculator using the given stores.
func NewSOSCalculator(teams TeamStore, games GameStore, params rating.Params) *SOSCalculator {
	return &SOSCalculator{teams: teams, games: games, params: params}
}

// SOS returns the team's strength of schedule through the given week.
// A team with no processed games gets the neutral baseline rating.
func (c *SOSCalculator) SOS(ctx context.Context, teamID, season, asOfWeek int) (float64, error) {
	games, err := c.games.ListProcessed(ctx, season, teamID, asOfWeek)
	if err != nil {
		return 0, fmt.Errorf("failed to list processed games for team %d: %w", teamID, err)
	}
	if len(games) == 0 {
		return c.params.BaseRating, nil
	}

	var sum float64
	for _, g := range games {
		oppID := g.AwayTeamID
		if g.AwayTeamID == teamID {
			oppID = g.HomeTeamID
		}
		opp, err := c.teams.GetTeam(ctx, oppID)
		if err != nil {
			return 0, fmt.Errorf("failed to load opponent %d: %w", oppID, err)
		}
		if opp == nil {
			return 0, fmt.Errorf("opponent %d not found", oppID)
		}
		sum += opp.Rating
	}
	return sum / float64(len(games)), nil
}

// SOSAll returns strength of schedule for every team in a season in one
// pass, keyed by team ID. Used by the snapshot service to avoid a query per
// team.
func (c *SOSCalculator) SOSAll(ctx context.Context, season, asOfWeek int) (map[int]float64, error) {
	teams, err := c.teams.ListTeams(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	ratings := make(map[int]float64, len(teams))
	for _, t := range teams {
		ratings[t.ID] = t.Rating
	}

	games, err := c.games.ListProcessed(ctx, season, -1, asOfWeek)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed games: %w", err)
	}

	sums := make(map[int]float64, len(teams))
	counts := make(map[int]int, len(teams))
	for _, g := range games {
		if r, ok := ratings[g.AwayTeamID]; ok {
			sums[g.HomeTeamID] += r
			counts[g.HomeTeamID]++
		}
		if r, ok := ratings[g.HomeTeamID]; ok {
			sums[g.AwayTeamID] += r
			counts[g.AwayTeamID]++
		}
	}

	sos := make(map[int]float64, len(teams))
	for _, t := range teams {
		if counts[t.ID] == 0 {
			sos[t.ID] = c.params.BaseRating
			continue
		}
		sos[t.ID] = sums[t.ID] / float64(counts[t.ID])
	}
	return sos, nil
}
