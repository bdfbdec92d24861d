package rating

import (
	"github.com/rs/zerolog/log"
)

// SeedInput carries the preseason talent signals for one team. Nil fields
// mean the data was missing upstream.
type SeedInput struct {
	TeamCode            string
	RecruitingRank      *int     // 1 = best class; nil = unknown
	TransferSignal      *float64 // [-1, 1], positive = net portal gain; nil = unknown
	ReturningProduction *float64 // [0, 1] fraction of production returning; nil = unknown
}

// SeedRating computes a team's starting rating from preseason signals as a
// weighted offset from the baseline, clamped to BaseRating ± MaxSeedOffset.
// Missing signals fall back to neutral defaults (worst-rank sentinel,
// midpoint production, zero portal signal) and are logged as data-quality
// warnings rather than failing.
func (p Params) SeedRating(in SeedInput) float64 {
	rank := p.WorstRecruitRank
	if in.RecruitingRank != nil && *in.RecruitingRank >= 1 {
		rank = *in.RecruitingRank
	} else {
		log.Warn().
			Str("team", in.TeamCode).
			Msg("Missing recruiting rank, seeding with worst-rank default")
	}
	if rank > p.WorstRecruitRank {
		rank = p.WorstRecruitRank
	}

	transfer := 0.0
	if in.TransferSignal != nil {
		transfer = clamp(*in.TransferSignal, -1, 1)
	} else {
		log.Warn().
			Str("team", in.TeamCode).
			Msg("Missing transfer signal, seeding with neutral default")
	}

	production := 0.5
	if in.ReturningProduction != nil {
		production = clamp(*in.ReturningProduction, 0, 1)
	} else {
		log.Warn().
			Str("team", in.TeamCode).
			Msg("Missing returning production, seeding with midpoint default")
	}

	// Lower rank number = stronger class = higher offset. Rank 1 gets the
	// full recruiting weight, the worst-rank sentinel gets zero.
	recruitOffset := p.RecruitingWeight * float64(p.WorstRecruitRank-rank) / float64(p.WorstRecruitRank-1)
	transferOffset := p.TransferWeight * transfer
	productionOffset := p.ProductionWeight * (production - 0.5) * 2

	offset := clamp(recruitOffset+transferOffset+productionOffset, -p.MaxSeedOffset, p.MaxSeedOffset)
	return p.BaseRating + offset
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
