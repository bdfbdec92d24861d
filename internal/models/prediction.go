package models

import (
	"database/sql"
	"time"
)

// Prediction represents the engine's pregame pick for a single game.
// At most one prediction exists per game. The rating snapshots are copied
// values taken at prediction time; later rating drift never changes them.
type Prediction struct {
	ID     int `db:"id"`
	GameID int `db:"game_id"`

	PredictedWinnerID  int     `db:"predicted_winner_id"`
	PredictedHomeScore int     `db:"predicted_home_score"`
	PredictedAwayScore int     `db:"predicted_away_score"`
	WinProbability     float64 `db:"win_probability"`

	// Rating snapshots at prediction time
	HomeRating float64 `db:"home_rating"`
	AwayRating float64 `db:"away_rating"`

	// Evaluation, populated exactly once after the game is processed.
	WasCorrect sql.NullBool `db:"was_correct"`

	// Poll-implied comparison: which side the reference poll would have
	// picked, null when the poll offers no comparable pick for the matchup.
	PollWinnerID sql.NullInt32 `db:"poll_winner_id"`
	PollCorrect  sql.NullBool  `db:"poll_correct"`

	CreatedAt time.Time `db:"created_at"`
}

// Evaluated reports whether the prediction has been scored against a result.
func (p *Prediction) Evaluated() bool {
	return p.WasCorrect.Valid
}

// PredictedMargin returns the predicted home margin in points.
func (p *Prediction) PredictedMargin() int {
	return p.PredictedHomeScore - p.PredictedAwayScore
}
