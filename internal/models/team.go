package models

import (
	"database/sql"
	"time"
)

// Tier classifies a team's competitive level. Wins over lower tiers
// move ratings less than wins over equal competition.
type Tier string

const (
	TierPower       Tier = "FBS Power"
	TierGroupOfFive Tier = "FBS Group of Five"
	TierFCS         Tier = "FCS"
)

// Team represents a college football team and its rating state for one season.
type Team struct {
	ID         int    `db:"id"`
	TeamCode   string `db:"team_code"`
	SchoolName string `db:"school_name"`
	Conference string `db:"conference"`
	Tier       Tier   `db:"tier"`
	Season     int    `db:"season"`

	// Preseason talent signals. Nullable: missing data is substituted with
	// neutral defaults at seed time, not treated as an error.
	RecruitingRank      sql.NullInt32   `db:"recruiting_rank"`
	TransferSignal      sql.NullFloat64 `db:"transfer_signal"`
	ReturningProduction sql.NullFloat64 `db:"returning_production"`

	// Rating mutates only through game processing. InitialRating is written
	// once by the preseason seeder and never changes afterward.
	Rating        float64         `db:"rating"`
	InitialRating sql.NullFloat64 `db:"initial_rating"`
	Wins          int             `db:"wins"`
	Losses        int             `db:"losses"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Seeded reports whether the team already has a preseason rating.
func (t *Team) Seeded() bool {
	return t.InitialRating.Valid
}

// WinPct returns the team's win percentage, 0 with no games played.
func (t *Team) WinPct() float64 {
	games := t.Wins + t.Losses
	if games == 0 {
		return 0
	}
	return float64(t.Wins) / float64(games)
}

// TeamInput is used for creating/updating teams from the season import.
type TeamInput struct {
	TeamCode            string   `json:"TeamCode"`
	School              string   `json:"School"`
	Conference          string   `json:"Conference"`
	Tier                string   `json:"Tier"`
	Season              int      `json:"Season"`
	RecruitingRank      *int     `json:"RecruitingRank,omitempty"`
	TransferSignal      *float64 `json:"TransferSignal,omitempty"`
	ReturningProduction *float64 `json:"ReturningProduction,omitempty"`
}

// ToTeam converts TeamInput (from the import collaborator) to a Team model.
func (ti *TeamInput) ToTeam() *Team {
	team := &Team{
		TeamCode:   ti.TeamCode,
		SchoolName: ti.School,
		Conference: ti.Conference,
		Tier:       Tier(ti.Tier),
		Season:     ti.Season,
	}

	if ti.RecruitingRank != nil {
		team.RecruitingRank = sql.NullInt32{Int32: int32(*ti.RecruitingRank), Valid: true}
	}
	if ti.TransferSignal != nil {
		team.TransferSignal = sql.NullFloat64{Float64: *ti.TransferSignal, Valid: true}
	}
	if ti.ReturningProduction != nil {
		team.ReturningProduction = sql.NullFloat64{Float64: *ti.ReturningProduction, Valid: true}
	}

	return team
}
