package engine

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"cfbrank/engine/internal/models"
)

// memStore is an in-memory implementation of the engine's store interfaces,
// used to test rating semantics deterministically without a database.
type memStore struct {
	teams      map[int]*models.Team
	games      map[int]*models.Game
	preds      map[int]*models.Prediction // keyed by game ID
	snaps      []*models.RankingSnapshot
	polls      map[string]int // "team:season:week" -> rank
	nextPredID int
}

func newMemStore() *memStore {
	return &memStore{
		teams: make(map[int]*models.Team),
		games: make(map[int]*models.Game),
		preds: make(map[int]*models.Prediction),
		polls: make(map[string]int),
	}
}

func (m *memStore) addTeam(id int, code string, tier models.Tier, rating float64) *models.Team {
	t := &models.Team{
		ID:            id,
		TeamCode:      code,
		Tier:          tier,
		Season:        2025,
		Rating:        rating,
		InitialRating: sql.NullFloat64{Float64: rating, Valid: true},
	}
	m.teams[id] = t
	return t
}

func (m *memStore) addFinalGame(id, week int, home, away *models.Team, homeScore, awayScore int, neutral bool) *models.Game {
	g := &models.Game{
		ID:           id,
		Season:       2025,
		Week:         week,
		HomeTeamID:   home.ID,
		AwayTeamID:   away.ID,
		HomeTeamCode: home.TeamCode,
		AwayTeamCode: away.TeamCode,
		GameDate:     time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC).AddDate(0, 0, 7*week),
		NeutralSite:  neutral,
		Status:       models.StatusFinal,
		HomeScore:    sql.NullInt32{Int32: int32(homeScore), Valid: true},
		AwayScore:    sql.NullInt32{Int32: int32(awayScore), Valid: true},
	}
	m.games[id] = g
	return g
}

func (m *memStore) addScheduledGame(id, week int, home, away *models.Team, neutral bool) *models.Game {
	g := &models.Game{
		ID:           id,
		Season:       2025,
		Week:         week,
		HomeTeamID:   home.ID,
		AwayTeamID:   away.ID,
		HomeTeamCode: home.TeamCode,
		AwayTeamCode: away.TeamCode,
		GameDate:     time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC).AddDate(0, 0, 7*week),
		NeutralSite:  neutral,
		Status:       models.StatusScheduled,
	}
	m.games[id] = g
	return g
}

func (m *memStore) setPollRank(teamID, season, week, rank int) {
	m.polls[fmt.Sprintf("%d:%d:%d", teamID, season, week)] = rank
}

// TeamStore

func (m *memStore) GetTeam(_ context.Context, id int) (*models.Team, error) {
	t, ok := m.teams[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) ListTeams(_ context.Context, season int) ([]*models.Team, error) {
	var teams []*models.Team
	for _, t := range m.teams {
		if t.Season == season {
			cp := *t
			teams = append(teams, &cp)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (m *memStore) SetInitialRating(_ context.Context, teamID int, seed float64, reset bool) error {
	t, ok := m.teams[teamID]
	if !ok {
		return fmt.Errorf("team not found: id=%d", teamID)
	}
	if t.InitialRating.Valid && !reset {
		return nil
	}
	t.Rating = seed
	t.InitialRating = sql.NullFloat64{Float64: seed, Valid: true}
	if reset {
		t.Wins, t.Losses = 0, 0
	}
	return nil
}

// GameStore

func (m *memStore) GetGame(_ context.Context, id int) (*models.Game, error) {
	g, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) sortedGames(filter func(*models.Game) bool) []*models.Game {
	var games []*models.Game
	for _, g := range m.games {
		if filter(g) {
			cp := *g
			games = append(games, &cp)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		if games[i].Week != games[j].Week {
			return games[i].Week < games[j].Week
		}
		return games[i].GameDate.Before(games[j].GameDate)
	})
	return games
}

func (m *memStore) ListProcessed(_ context.Context, season, teamID, throughWeek int) ([]*models.Game, error) {
	return m.sortedGames(func(g *models.Game) bool {
		if g.Season != season || !g.RatingProcessed || g.Week > throughWeek {
			return false
		}
		return teamID < 0 || g.HomeTeamID == teamID || g.AwayTeamID == teamID
	}), nil
}

func (m *memStore) ListFinalUnprocessed(_ context.Context, season int) ([]*models.Game, error) {
	return m.sortedGames(func(g *models.Game) bool {
		return g.Season == season && g.Status == models.StatusFinal && !g.RatingProcessed
	}), nil
}

func (m *memStore) ListScheduled(_ context.Context, season, week int) ([]*models.Game, error) {
	return m.sortedGames(func(g *models.Game) bool {
		return g.Season == season && g.Week == week && g.Status == models.StatusScheduled
	}), nil
}

func (m *memStore) LatestProcessed(_ context.Context, season, teamID int) (*models.Game, error) {
	processed := m.sortedGames(func(g *models.Game) bool {
		return g.Season == season && g.RatingProcessed &&
			(g.HomeTeamID == teamID || g.AwayTeamID == teamID)
	})
	if len(processed) == 0 {
		return nil, nil
	}
	return processed[len(processed)-1], nil
}

func (m *memStore) ApplyGameResult(_ context.Context, game *models.Game, homeDelta, awayDelta float64, winnerID int) error {
	g, ok := m.games[game.ID]
	if !ok {
		return fmt.Errorf("game not found: id=%d", game.ID)
	}
	if g.RatingProcessed {
		return fmt.Errorf("game already processed: id=%d", g.ID)
	}

	g.RatingProcessed = true
	g.HomeRatingDelta = homeDelta
	g.AwayRatingDelta = awayDelta

	home, away := m.teams[g.HomeTeamID], m.teams[g.AwayTeamID]
	home.Rating += homeDelta
	away.Rating += awayDelta
	if winnerID == g.HomeTeamID {
		home.Wins++
		away.Losses++
	} else {
		away.Wins++
		home.Losses++
	}
	return nil
}

// SnapshotStore

func (m *memStore) SaveSnapshots(_ context.Context, snaps []*models.RankingSnapshot) error {
	for _, snap := range snaps {
		if m.findSnapshot(snap.TeamID, snap.Season, snap.Week) != nil {
			continue
		}
		cp := *snap
		m.snaps = append(m.snaps, &cp)
	}
	return nil
}

func (m *memStore) findSnapshot(teamID, season, week int) *models.RankingSnapshot {
	for _, s := range m.snaps {
		if s.TeamID == teamID && s.Season == season && s.Week == week {
			return s
		}
	}
	return nil
}

func (m *memStore) ListSnapshotsByTeam(_ context.Context, teamID, season int) ([]*models.RankingSnapshot, error) {
	var snaps []*models.RankingSnapshot
	for _, s := range m.snaps {
		if s.TeamID == teamID && s.Season == season {
			cp := *s
			snaps = append(snaps, &cp)
		}
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Week < snaps[j].Week })
	return snaps, nil
}

// PredictionStore

func (m *memStore) CreatePrediction(_ context.Context, pred *models.Prediction) error {
	if _, exists := m.preds[pred.GameID]; exists {
		return fmt.Errorf("duplicate prediction for game %d", pred.GameID)
	}
	m.nextPredID++
	pred.ID = m.nextPredID
	cp := *pred
	m.preds[pred.GameID] = &cp
	return nil
}

func (m *memStore) GetPredictionByGameID(_ context.Context, gameID int) (*models.Prediction, error) {
	p, ok := m.preds[gameID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListPredictionsByWeek(_ context.Context, season, week int) ([]*models.Prediction, error) {
	var preds []*models.Prediction
	for gameID, p := range m.preds {
		g := m.games[gameID]
		if g != nil && g.Season == season && g.Week == week {
			cp := *p
			preds = append(preds, &cp)
		}
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i].ID < preds[j].ID })
	return preds, nil
}

func (m *memStore) SetOutcome(_ context.Context, predictionID int, wasCorrect bool, pollWinnerID *int, pollCorrect *bool) error {
	for _, p := range m.preds {
		if p.ID != predictionID {
			continue
		}
		if p.WasCorrect.Valid {
			return fmt.Errorf("prediction already evaluated: id=%d", predictionID)
		}
		p.WasCorrect = sql.NullBool{Bool: wasCorrect, Valid: true}
		if pollWinnerID != nil {
			p.PollWinnerID = sql.NullInt32{Int32: int32(*pollWinnerID), Valid: true}
		}
		if pollCorrect != nil {
			p.PollCorrect = sql.NullBool{Bool: *pollCorrect, Valid: true}
		}
		return nil
	}
	return fmt.Errorf("prediction not found: id=%d", predictionID)
}

// PollStore

func (m *memStore) GetPollRank(_ context.Context, teamID, season, week int) (int, bool, error) {
	rank, ok := m.polls[fmt.Sprintf("%d:%d:%d", teamID, season, week)]
	return rank, ok, nil
}

// ReportStore

func (m *memStore) AccuracyReport(_ context.Context, season int) (*models.AccuracyReport, error) {
	report := &models.AccuracyReport{Season: season}
	for gameID, p := range m.preds {
		g := m.games[gameID]
		if g == nil || g.Season != season || !p.WasCorrect.Valid {
			continue
		}
		report.Model.Evaluated++
		if p.WasCorrect.Bool {
			report.Model.Correct++
		}
		if p.PollCorrect.Valid {
			report.Poll.Evaluated++
			if p.PollCorrect.Bool {
				report.Poll.Correct++
			}
			if int(p.PollWinnerID.Int32) != p.PredictedWinnerID {
				report.Disagreements++
				if p.WasCorrect.Bool {
					report.DisagreementsWon++
				}
			}
		}
	}
	if report.Model.Evaluated > 0 {
		report.Model.Accuracy = float64(report.Model.Correct) / float64(report.Model.Evaluated)
	}
	if report.Poll.Evaluated > 0 {
		report.Poll.Accuracy = float64(report.Poll.Correct) / float64(report.Poll.Evaluated)
	}
	return report, nil
}
