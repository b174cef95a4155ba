package testdata

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/gridpulse/pkg/logger"
)

// Run generates the dataset, writes and re-reads it, then optionally drives a dashboard.
// It returns the run statistics even when a later step fails.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
		stats.Duration = stats.EndTime.Sub(stats.StartTime)
	}()

	logger.Get().Info(ctx, "starting test data run",
		logger.Int("rows", cfg.Rows),
		logger.Any("seed", cfg.Seed),
		logger.Int("drivers", cfg.Drivers),
		logger.String("output", cfg.OutputFile),
		logger.String("baseURL", cfg.BaseURL))

	rows, err := Generate(ctx, cfg, stats)
	if err != nil {
		return stats, fmt.Errorf("generation failed: %w", err)
	}

	path, err := saveToFile(ctx, cfg, rows)
	if err != nil {
		return stats, fmt.Errorf("save failed: %w", err)
	}

	if err := verifyFile(ctx, cfg, path, rows, stats); err != nil {
		return stats, fmt.Errorf("verification failed: %w", err)
	}

	if cfg.BaseURL != "" && cfg.Selections > 0 {
		if err := exercise(ctx, cfg, stats); err != nil {
			return stats, fmt.Errorf("dashboard exercise failed: %w", err)
		}
	}

	displayFinalStats(ctx, stats)
	logger.Get().Info(ctx, "test data run completed")
	return stats, nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("rowsGenerated", stats.RowsGenerated),
		logger.Int("rowsPitLane", stats.RowsPitLane),
		logger.Int("rowsUnclassified", stats.RowsUnclassified),
		logger.Int("rowsLoaded", stats.RowsLoaded),
		logger.Int("circuits", stats.Circuits),
		logger.Int("selectionsPosted", stats.SelectionsPosted),
		logger.Int("selectionsFailed", stats.SelectionsFailed),
		logger.Uint64("highestSeq", stats.HighestSeq),
		logger.Uint64("displayedSeq", stats.DisplayedSeq),
		logger.Duration("duration", time.Since(stats.StartTime)))
}
