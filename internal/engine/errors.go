package engine

import "fmt"

// InvalidGameError rejects a game that cannot be processed: unplayed, missing
// a team, out-of-range week, tied, or already processed. The reason names the
// violated invariant so operators can fix the upstream data instead of
// retrying blindly.
type InvalidGameError struct {
	GameID int
	Reason string
}

func (e *InvalidGameError) Error() string {
	return fmt.Sprintf("invalid game %d: %s", e.GameID, e.Reason)
}

// OutOfOrderError rejects a game whose week/date precedes the latest
// already-processed game for one of its teams. Ratings are path-dependent,
// so applying it anyway would silently corrupt every later rating.
type OutOfOrderError struct {
	GameID   int
	TeamID   int
	Week     int
	LastWeek int
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("game %d (week %d) precedes already-processed week %d for team %d",
		e.GameID, e.Week, e.LastWeek, e.TeamID)
}

// AlreadyPredictedError rejects a duplicate prediction request. A second
// prediction row is never created.
type AlreadyPredictedError struct {
	GameID int
}

func (e *AlreadyPredictedError) Error() string {
	return fmt.Sprintf("prediction already exists for game %d", e.GameID)
}
