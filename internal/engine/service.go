package engine

import (
	"context"
	"fmt"
	"time"

	"cfbrank/engine/internal/cache"
	"cfbrank/engine/internal/models"

	"github.com/rs/zerolog/log"
)

// Service is the engine's external surface: the read views and the two
// mutating entry points (ProcessGame, GeneratePrediction) that the API layer
// consumes. Rankings are cached in Redis and invalidated after processing.
type Service struct {
	Processor   *GameProcessor
	Predictor   *Predictor
	Evaluator   *Evaluator
	Snapshotter *Snapshotter
	Seeder      *Seeder

	games   GameStore
	snaps   SnapshotStore
	preds   PredictionStore
	reports ReportStore

	cache       *cache.Cache // nil disables caching
	rankingsTTL time.Duration
}

// NewService assembles the engine facade. cache may be nil.
func NewService(
	processor *GameProcessor,
	predictor *Predictor,
	evaluator *Evaluator,
	snapshotter *Snapshotter,
	seeder *Seeder,
	games GameStore,
	snaps SnapshotStore,
	preds PredictionStore,
	reports ReportStore,
	c *cache.Cache,
	rankingsTTL time.Duration,
) *Service {
	return &Service{
		Processor:   processor,
		Predictor:   predictor,
		Evaluator:   evaluator,
		Snapshotter: snapshotter,
		Seeder:      seeder,
		games:       games,
		snaps:       snaps,
		preds:       preds,
		reports:     reports,
		cache:       c,
		rankingsTTL: rankingsTTL,
	}
}

func rankingsKey(season int) string {
	return fmt.Sprintf("rankings:%d", season)
}

// ProcessGame processes one finalized game and immediately evaluates its
// stored prediction. The rankings cache is invalidated on success.
func (s *Service) ProcessGame(ctx context.Context, gameID int) (*ProcessResult, error) {
	result, err := s.Processor.Process(ctx, gameID)
	if err != nil {
		return nil, err
	}

	game, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return result, fmt.Errorf("failed to reload processed game %d: %w", gameID, err)
	}
	if game == nil {
		return result, fmt.Errorf("processed game %d disappeared", gameID)
	}
	if err := s.Evaluator.Evaluate(ctx, game); err != nil {
		// Evaluation failure doesn't undo processing; it can be retried.
		log.Error().Err(err).Int("game_id", gameID).Msg("Prediction evaluation failed")
	}

	s.invalidateRankings(ctx, game.Season)
	return result, nil
}

// RunPipeline processes every pending final chronologically, evaluates the
// predictions for the games that were applied, and snapshots the latest
// processed week. A mid-batch rejection still scores and snapshots the games
// applied before it: processed games never reappear in the pending sweep, so
// skipping them here would leave their predictions unscored for good. The
// processing error is returned after the partial batch is handled.
func (s *Service) RunPipeline(ctx context.Context, season int) (int, error) {
	results, procErr := s.Processor.ProcessPending(ctx, season)
	if procErr != nil {
		procErr = fmt.Errorf("failed to process pending games: %w", procErr)
	}
	if len(results) == 0 {
		return 0, procErr
	}

	week := 0
	for _, res := range results {
		game, err := s.games.GetGame(ctx, res.GameID)
		if err != nil || game == nil {
			log.Error().Err(err).Int("game_id", res.GameID).Msg("Failed to reload game for evaluation")
			continue
		}
		if game.Week > week {
			week = game.Week
		}
		if err := s.Evaluator.Evaluate(ctx, game); err != nil {
			log.Error().Err(err).Int("game_id", res.GameID).Msg("Prediction evaluation failed")
		}
	}

	if _, err := s.Snapshotter.Snapshot(ctx, season, week); err != nil {
		if procErr == nil {
			procErr = fmt.Errorf("failed to snapshot rankings: %w", err)
		} else {
			log.Error().Err(err).Int("season", season).Int("week", week).Msg("Failed to snapshot rankings")
		}
	}

	s.invalidateRankings(ctx, season)
	return len(results), procErr
}

// Game returns one game by ID, nil when not found.
func (s *Service) Game(ctx context.Context, gameID int) (*models.Game, error) {
	return s.games.GetGame(ctx, gameID)
}

// GeneratePrediction creates the stored prediction for an upcoming game.
func (s *Service) GeneratePrediction(ctx context.Context, gameID int) (*models.Prediction, error) {
	return s.Predictor.Predict(ctx, gameID)
}

// CurrentRankings returns the live ordering for a season, served from cache
// when available.
func (s *Service) CurrentRankings(ctx context.Context, season int) ([]*RankedTeam, error) {
	if s.cache != nil {
		var cached []*RankedTeam
		hit, err := s.cache.GetJSON(ctx, rankingsKey(season), &cached)
		if err != nil {
			log.Warn().Err(err).Int("season", season).Msg("Rankings cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	ranked, err := s.Snapshotter.Rank(ctx, season, s.Processor.params.MaxWeek)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, rankingsKey(season), ranked, s.rankingsTTL); err != nil {
			log.Warn().Err(err).Int("season", season).Msg("Rankings cache write failed")
		}
	}
	return ranked, nil
}

// RankingHistory returns a team's weekly snapshots for a season in week order.
func (s *Service) RankingHistory(ctx context.Context, teamID, season int) ([]*models.RankingSnapshot, error) {
	return s.snaps.ListSnapshotsByTeam(ctx, teamID, season)
}

// PredictionsForWeek returns stored predictions for a week.
func (s *Service) PredictionsForWeek(ctx context.Context, season, week int) ([]*models.Prediction, error) {
	return s.preds.ListPredictionsByWeek(ctx, season, week)
}

// AccuracyReport returns aggregate prediction accuracy for a season,
// including the reference-poll comparison. Empty seasons yield an empty
// report, not an error.
func (s *Service) AccuracyReport(ctx context.Context, season int) (*models.AccuracyReport, error) {
	return s.reports.AccuracyReport(ctx, season)
}

func (s *Service) invalidateRankings(ctx context.Context, season int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, rankingsKey(season)); err != nil {
		log.Warn().Err(err).Int("season", season).Msg("Rankings cache invalidation failed")
	}
}
