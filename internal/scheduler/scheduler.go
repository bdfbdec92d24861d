package scheduler

import (
	"context"
	"fmt"
	"time"

	"cfbrank/engine/internal/config"
	"cfbrank/engine/internal/engine"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler manages the engine's background jobs:
// - the weekly pipeline (process pending finals in order, snapshot, refresh rankings)
// - a periodic sweep that predicts newly imported upcoming games
type Scheduler struct {
	cfg      *config.Config
	service  *engine.Service
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, service *engine.Service) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		service:  service,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.WeeklyPipelineCron, func() {
		log.Info().Msg("Running weekly rating pipeline...")
		if err := s.RunPipeline(ctx); err != nil {
			log.Error().Err(err).Msg("Weekly pipeline failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule weekly pipeline: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.WeeklyPipelineCron).
		Msg("Weekly pipeline scheduled")

	s.ticker = time.NewTicker(s.cfg.PredictionSweep)
	log.Info().
		Dur("interval", s.cfg.PredictionSweep).
		Msg("Prediction sweep started")

	go s.sweepPredictions(ctx)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// RunPipeline runs the weekly batch: process pending finals in order,
// evaluate their predictions, snapshot, and refresh the rankings cache.
// A rejected game stops processing, but everything applied before it is
// still scored and snapshotted before the error comes back.
func (s *Scheduler) RunPipeline(ctx context.Context) error {
	start := time.Now()
	season := s.cfg.CurrentSeason

	processed, err := s.service.RunPipeline(ctx, season)
	if err != nil {
		return err
	}
	if processed == 0 {
		log.Info().Int("season", season).Msg("No pending games to process")
		return nil
	}

	// Warm the rankings cache with the post-batch ordering.
	if _, err := s.service.CurrentRankings(ctx, season); err != nil {
		log.Warn().Err(err).Msg("Failed to refresh rankings cache")
	}

	log.Info().
		Int("season", season).
		Int("processed", processed).
		Dur("duration", time.Since(start)).
		Msg("Weekly pipeline complete")

	return nil
}

// sweepPredictions periodically predicts upcoming games that have none yet
func (s *Scheduler) sweepPredictions(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping prediction sweep")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping prediction sweep")
			return
		case <-s.ticker.C:
			if err := s.predictUpcoming(ctx); err != nil {
				log.Error().Err(err).Msg("Prediction sweep failed")
			}
		}
	}
}

// predictUpcoming generates predictions for scheduled games across the season
func (s *Scheduler) predictUpcoming(ctx context.Context) error {
	season := s.cfg.CurrentSeason
	created := 0

	for week := 0; week <= s.cfg.MaxWeek; week++ {
		preds, err := s.service.Predictor.PredictWeek(ctx, season, week)
		if err != nil {
			return fmt.Errorf("failed to predict week %d: %w", week, err)
		}
		created += len(preds)
	}

	if created > 0 {
		log.Info().Int("season", season).Int("count", created).Msg("Prediction sweep complete")
	}
	return nil
}
