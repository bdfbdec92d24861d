// Package rating implements the pure math of the rating system: logistic win
// expectation, margin-of-victory scaling, tier scaling, preseason seeding and
// the spread mapping used for predictions. Everything here is deterministic
// and side-effect free; persistence and ordering live in internal/engine.
package rating

import (
	"math"

	"cfbrank/engine/internal/models"
)

// WinProbability returns P(side A wins) for a rating difference of
// ratingA - ratingB, before any home-field adjustment.
func (p Params) WinProbability(diff float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, -diff/p.LogisticScale))
}

// ExpectedHomeWin returns the home side's win probability with the
// home-field offset applied, suppressed on neutral sites.
func (p Params) ExpectedHomeWin(homeRating, awayRating float64, neutralSite bool) float64 {
	adj := homeRating
	if !neutralSite {
		adj += p.HomeFieldAdvantage
	}
	return p.WinProbability(adj - awayRating)
}

// MOVMultiplier scales the rating swing by margin of victory. It grows with
// the log of the margin, so blowouts saturate, and it damps when the winner
// already held a large rating edge, so dominant teams gain little from
// expected routs.
func (p Params) MOVMultiplier(margin int, winnerRating, loserRating float64) float64 {
	if margin < 0 {
		margin = -margin
	}
	gap := winnerRating - loserRating
	if gap < 0 {
		gap = 0
	}
	return math.Log(float64(margin)+1) * (2.2 / (gap*0.001 + 2.2))
}

// Delta computes the winner's rating delta for a finished game. The loser's
// delta is the exact negation, preserving the zero-sum invariant.
func (p Params) Delta(margin int, expectedWin float64, winnerTier, loserTier models.Tier, winnerRating, loserRating float64) float64 {
	mov := p.MOVMultiplier(margin, winnerRating, loserRating)
	tier := tierFactor(winnerTier, loserTier)
	return p.KFactor * mov * tier * (1 - expectedWin)
}

// PredictScores maps a home-perspective rating gap (home-field already
// included for non-neutral sites) to a deterministic score line. The spread
// is the gap divided by PointsPerRating, split symmetrically around the
// league-average team score.
func (p Params) PredictScores(homeRating, awayRating float64, neutralSite bool) (home, away int) {
	adj := homeRating
	if !neutralSite {
		adj += p.HomeFieldAdvantage
	}
	spread := (adj - awayRating) / p.PointsPerRating

	home = int(math.Round(p.AvgTeamScore + spread/2))
	away = int(math.Round(p.AvgTeamScore - spread/2))
	if home < 0 {
		home = 0
	}
	if away < 0 {
		away = 0
	}
	// The mapping never predicts a tie: nudge toward the favored side.
	if home == away {
		if adj >= awayRating {
			home++
		} else {
			away++
		}
	}
	return home, away
}
