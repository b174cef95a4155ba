// Package repository loads the race results table and serves it read-only.
package repository

import (
	"context"

	"github.com/okian/gridpulse/internal/domain/model"
	"github.com/okian/gridpulse/internal/domain/selection"
)

// Store provides read access to the loaded race results.
type Store interface {
	// Rows returns every qualifying row in source order. Callers must not mutate it.
	Rows(ctx context.Context) []model.RaceResult

	// Circuits returns the distinct circuit options in first-seen order.
	Circuits(ctx context.Context) []model.Option

	// Count returns the number of qualifying rows.
	Count(ctx context.Context) int
}

// Dataset is the immutable in-memory table produced by Load or Read.
type Dataset struct {
	source   string
	rows     []model.RaceResult
	circuits []model.Option
	dropped  int
}

var _ Store = (*Dataset)(nil)

// NewDataset wraps already-filtered rows. It is used by Read and by tests.
func NewDataset(source string, rows []model.RaceResult, dropped int) *Dataset {
	owned := make([]model.RaceResult, len(rows))
	copy(owned, rows)
	return &Dataset{
		source:   source,
		rows:     owned,
		circuits: selection.DistinctValues(owned, model.FieldCircuitName),
		dropped:  dropped,
	}
}

func (d *Dataset) Rows(_ context.Context) []model.RaceResult { return d.rows }

// Circuits returns a copy of the circuit options.
func (d *Dataset) Circuits(_ context.Context) []model.Option {
	out := make([]model.Option, len(d.circuits))
	copy(out, d.circuits)
	return out
}

func (d *Dataset) Count(_ context.Context) int { return len(d.rows) }

// Dropped is the number of rows discarded at load because they had no grid slot.
func (d *Dataset) Dropped() int { return d.dropped }

// Source names where the rows came from.
func (d *Dataset) Source() string { return d.source }
