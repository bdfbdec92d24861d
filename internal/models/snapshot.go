package models

import "time"

// RankingSnapshot is an immutable weekly record of a team's standing.
// One row exists per (team, season, week); rows are never updated.
type RankingSnapshot struct {
	ID       int    `db:"id"`
	TeamID   int    `db:"team_id"`
	TeamCode string `db:"team_code"`
	Season   int    `db:"season"`
	Week     int    `db:"week"`

	Rank   int     `db:"rank"`
	Rating float64 `db:"rating"`
	Wins   int     `db:"wins"`
	Losses int     `db:"losses"`

	SOS     float64 `db:"sos"`
	SOSRank int     `db:"sos_rank"`

	CreatedAt time.Time `db:"created_at"`
}
