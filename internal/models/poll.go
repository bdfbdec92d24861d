package models

import "time"

// PollRanking is one entry of an external reference poll for a given week.
// Used only by the accuracy evaluator for comparison; never an input to
// rating updates. Read-only once imported.
type PollRanking struct {
	ID     int `db:"id"`
	TeamID int `db:"team_id"`
	Season int `db:"season"`
	Week   int `db:"week"`
	Rank   int `db:"rank"`

	CreatedAt time.Time `db:"created_at"`
}

// PollRankingInput is used for importing poll entries.
type PollRankingInput struct {
	TeamCode string `json:"TeamCode"`
	Season   int    `json:"Season"`
	Week     int    `json:"Week"`
	Rank     int    `json:"Rank"`
}
