package testdata

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/gridpulse/internal/adapters/repository"
	"github.com/okian/gridpulse/internal/domain/aggregate"
	"github.com/okian/gridpulse/internal/domain/model"
	"github.com/okian/gridpulse/internal/domain/selection"
	"github.com/okian/gridpulse/pkg/logger"
)

// Each rounded share is off by at most half a cent.
const roundingSlack = 0.005

// verifyFile loads path the way the server does and checks it against rows.
func verifyFile(ctx context.Context, cfg *Config, path string, rows []model.RaceResult, stats *Stats) error {
	logger.Get().Info(ctx, "verifying written file", logger.String("path", path))

	ds, err := repository.Load(ctx, path, repository.WithComma(cfg.Comma))
	if err != nil {
		return fmt.Errorf("failed to load generated file: %w", err)
	}
	stats.RowsLoaded = ds.Count(ctx)
	stats.Circuits = len(ds.Circuits(ctx))

	if want := stats.RowsGenerated - stats.RowsPitLane; stats.RowsLoaded != want {
		return fmt.Errorf("loaded %d rows, want %d", stats.RowsLoaded, want)
	}
	if ds.Dropped() != stats.RowsPitLane {
		return fmt.Errorf("dropped %d rows, want %d", ds.Dropped(), stats.RowsPitLane)
	}
	if want := len(selection.DistinctValues(rows, model.FieldCircuitName)); stats.Circuits != want {
		return fmt.Errorf("found %d circuits, want %d", stats.Circuits, want)
	}

	return verifyShares(aggregate.Aggregate(ds.Rows(ctx)))
}

// verifyShares checks that every grid's shares add up to 100%.
func verifyShares(aggs []model.AggregateRow) error {
	for grid, rows := range aggregate.ByGrid(aggs) {
		sum := 0.0
		for _, r := range rows {
			sum += r.Proportion
		}
		if math.Abs(sum-100) > roundingSlack*float64(len(rows)) {
			return fmt.Errorf("grid %d shares sum to %.2f", grid, sum)
		}
	}
	return nil
}
