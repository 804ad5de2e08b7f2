package seedevents

import (
	"context"
	"fmt"
	"time"

	"github.com/tempohq/tempo/pkg/logger"
)

// settleDelay gives the async recompute workers time to drain before
// scores are read back.
const settleDelay = 2 * time.Second

// Run executes a complete seeding run: health check, generate, submit,
// read scores back.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", config.Users),
		logger.Int("days", config.Days),
		logger.Int("workers", config.Workers),
	)

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	users, events, err := generateEvents(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("event generation failed: %w", err)
	}

	if err := submitEvents(ctx, config, events, stats); err != nil {
		return fmt.Errorf("event submission failed: %w", err)
	}

	log.Info(ctx, "waiting for recompute workers to settle")
	time.Sleep(settleDelay)

	if err := fetchScores(ctx, config, users, stats); err != nil {
		return fmt.Errorf("score fetch failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "seed run complete",
		logger.Int("generated", stats.EventsGenerated),
		logger.Int("successful", stats.EventsSuccessful),
		logger.Int("duplicate", stats.EventsDuplicate),
		logger.Int("failed", stats.EventsFailed),
		logger.Int("scoresFetched", stats.ScoresFetched),
		logger.Duration("duration", stats.Duration),
	)
	return nil
}
