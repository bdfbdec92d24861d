package models

// AccuracyBucket aggregates hit/miss counts for one slice of predictions.
type AccuracyBucket struct {
	Evaluated int     `json:"evaluated"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
}

// WeekAccuracy is the per-week view of prediction accuracy.
type WeekAccuracy struct {
	Week  int            `json:"week"`
	Model AccuracyBucket `json:"model"`
}

// TierAccuracy slices accuracy by the home team's competitive tier.
type TierAccuracy struct {
	Tier  Tier           `json:"tier"`
	Model AccuracyBucket `json:"model"`
}

// AccuracyReport aggregates evaluated predictions for a season, including
// the comparison against the reference poll's implied picks. The poll bucket
// only counts games where the poll offered a comparable pick.
type AccuracyReport struct {
	Season int `json:"season"`

	Model AccuracyBucket `json:"model"`
	Poll  AccuracyBucket `json:"poll"`

	// Disagreements counts games where the model and the poll picked
	// different winners; DisagreementsWon is how many the model got right.
	Disagreements    int `json:"disagreements"`
	DisagreementsWon int `json:"disagreements_won"`

	ByWeek []WeekAccuracy `json:"by_week"`
	ByTier []TierAccuracy `json:"by_tier"`
}
