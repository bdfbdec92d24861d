package rating

import "cfbrank/engine/internal/models"

// Params holds the tunable constants of the rating system. The defaults are
// the tuned production values; individual fields can be overridden from
// configuration.
type Params struct {
	// BaseRating is the league-wide baseline every season starts around.
	BaseRating float64

	// KFactor scales how far a single result moves a rating.
	KFactor float64

	// HomeFieldAdvantage is added to the home team's rating when computing
	// the expected outcome, suppressed for neutral-site games.
	HomeFieldAdvantage float64

	// LogisticScale is the rating difference that makes the stronger side a
	// 10-to-1 favorite. 400 is the classical value.
	LogisticScale float64

	// Preseason seeding weights and bounds
	RecruitingWeight float64 // points of offset for the best recruiting class
	TransferWeight   float64 // points of offset for the strongest portal signal
	ProductionWeight float64 // points of offset at full returning production
	WorstRecruitRank int     // sentinel rank used when recruiting data is missing
	MaxSeedOffset    float64 // seeds are clamped to BaseRating ± MaxSeedOffset

	// Prediction score mapping
	PointsPerRating float64 // rating points per point of spread
	AvgTeamScore    float64 // league-average per-team score the spread is split around

	// Season shape
	MaxWeek int
}

// DefaultParams returns the tuned production parameters.
func DefaultParams() Params {
	return Params{
		BaseRating:         1500,
		KFactor:            32,
		HomeFieldAdvantage: 65,
		LogisticScale:      400,
		RecruitingWeight:   120,
		TransferWeight:     40,
		ProductionWeight:   80,
		WorstRecruitRank:   134,
		MaxSeedOffset:      200,
		PointsPerRating:    25,
		AvgTeamScore:       28,
		MaxWeek:            16,
	}
}

// tierFactor maps the matchup's tier pairing to a rating-swing multiplier.
// A win over a lower tier counts for less; an upset by a lower tier over a
// higher one counts in full.
func tierFactor(winner, loser models.Tier) float64 {
	w, l := tierLevel(winner), tierLevel(loser)
	if w >= l {
		// Winner at the loser's tier or below it: full credit, upsets included.
		return 1.0
	}
	switch l - w {
	case 1:
		return 0.6
	default:
		return 0.25
	}
}

// tierLevel orders tiers from strongest (0) to weakest.
func tierLevel(t models.Tier) int {
	switch t {
	case models.TierPower:
		return 0
	case models.TierGroupOfFive:
		return 1
	default:
		return 2
	}
}
