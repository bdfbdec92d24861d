// Command seedratings runs the once-per-season preseason initialization:
// each team's starting rating is computed from its recruiting rank, transfer
// signal and returning production. Already-seeded teams are skipped unless
// -reset is passed, so re-running is safe.
package main

import (
	"context"
	"flag"
	"fmt"

	"cfbrank/engine/internal/config"
	"cfbrank/engine/internal/engine"
	"cfbrank/engine/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	reset := flag.Bool("reset", false, "re-seed teams that already have an initial rating")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     fmt.Sprintf("%d", cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	seeder := engine.NewSeeder(db.Teams, cfg.RatingParams())

	seeded, err := seeder.SeedSeason(ctx, cfg.CurrentSeason, *reset)
	if err != nil {
		log.Fatal().Err(err).Int("seeded", seeded).Msg("Preseason seeding failed")
	}

	if seeded == 0 {
		log.Info().Int("season", cfg.CurrentSeason).Msg("All teams already seeded. Exiting.")
		return
	}

	log.Info().
		Int("season", cfg.CurrentSeason).
		Int("seeded", seeded).
		Msg("Preseason seeding complete")
}
