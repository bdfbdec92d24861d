package models

import (
	"database/sql"
	"time"
)

// Game statuses. Status is the explicit played indicator: a Final game with
// both scores zero is a genuine shutout tie attempt, not a scheduled fixture.
const (
	StatusScheduled = "Scheduled"
	StatusFinal     = "Final"
)

// Game represents a college football game
type Game struct {
	ID           int       `db:"id"`
	Season       int       `db:"season"`
	Week         int       `db:"week"`
	HomeTeamID   int       `db:"home_team_id"`
	AwayTeamID   int       `db:"away_team_id"`
	HomeTeamCode string    `db:"home_team_code"`
	AwayTeamCode string    `db:"away_team_code"`
	GameDate     time.Time `db:"game_date"`
	NeutralSite  bool      `db:"neutral_site"`
	Status       string    `db:"status"`

	// Scores are null until the game is Final.
	HomeScore sql.NullInt32 `db:"home_score"`
	AwayScore sql.NullInt32 `db:"away_score"`

	// Rating state, written once when the game is processed. Deltas are
	// immutable afterward; HomeRatingDelta + AwayRatingDelta is always zero.
	RatingProcessed bool    `db:"rating_processed"`
	HomeRatingDelta float64 `db:"home_rating_delta"`
	AwayRatingDelta float64 `db:"away_rating_delta"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsScheduled returns true if the game has not been played yet
func (g *Game) IsScheduled() bool {
	return g.Status == StatusScheduled
}

// IsFinal returns true if the game has a genuine final score
func (g *Game) IsFinal() bool {
	return g.Status == StatusFinal && g.HomeScore.Valid && g.AwayScore.Valid
}

// Margin returns home score minus away score. Only meaningful for Final games.
func (g *Game) Margin() int {
	return int(g.HomeScore.Int32) - int(g.AwayScore.Int32)
}

// WinnerID returns the database ID of the winning team, 0 for a tie.
func (g *Game) WinnerID() int {
	switch {
	case g.Margin() > 0:
		return g.HomeTeamID
	case g.Margin() < 0:
		return g.AwayTeamID
	default:
		return 0
	}
}

// LoserID returns the database ID of the losing team, 0 for a tie.
func (g *Game) LoserID() int {
	switch {
	case g.Margin() > 0:
		return g.AwayTeamID
	case g.Margin() < 0:
		return g.HomeTeamID
	default:
		return 0
	}
}

// GameInput is used for creating/updating games from the results import
type GameInput struct {
	Season      int    `json:"Season"`
	Week        int    `json:"Week"`
	HomeTeam    string `json:"HomeTeam"` // Team code
	AwayTeam    string `json:"AwayTeam"` // Team code
	GameDate    string `json:"GameDate"` // ISO 8601 format
	NeutralSite bool   `json:"NeutralSite"`
	Status      string `json:"Status"`
	HomeScore   *int   `json:"HomeScore,omitempty"`
	AwayScore   *int   `json:"AwayScore,omitempty"`
}

// ToGame converts GameInput (from the import collaborator) to a Game model.
// Team database IDs need to be resolved before calling.
func (gi *GameInput) ToGame(homeTeamDBID, awayTeamDBID int) *Game {
	game := &Game{
		Season:       gi.Season,
		Week:         gi.Week,
		HomeTeamID:   homeTeamDBID,
		AwayTeamID:   awayTeamDBID,
		HomeTeamCode: gi.HomeTeam,
		AwayTeamCode: gi.AwayTeam,
		NeutralSite:  gi.NeutralSite,
		Status:       gi.Status,
	}

	if gameTime, err := time.Parse(time.RFC3339, gi.GameDate); err == nil {
		game.GameDate = gameTime
	}

	if gi.HomeScore != nil {
		game.HomeScore = sql.NullInt32{Int32: int32(*gi.HomeScore), Valid: true}
	}
	if gi.AwayScore != nil {
		game.AwayScore = sql.NullInt32{Int32: int32(*gi.AwayScore), Valid: true}
	}

	return game
}
