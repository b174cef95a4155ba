// Package testdata generates synthetic race results and drives a running dashboard with them.
package testdata

import (
	"errors"
	"time"
)

// Config holds configuration for a generation run.
type Config struct {
	Rows       int           // Number of result rows to write, pit lane starts included
	Seed       int64         // Seed for the generator; equal seeds give equal files
	Drivers    int           // Drivers per race, i.e. the largest grid slot
	OutputFile string        // CSV path; empty writes generated_results_TIMESTAMP.csv
	Comma      rune          // CSV delimiter
	Workers    int           // Concurrent generators and HTTP workers
	BaseURL    string        // Dashboard to exercise after writing; empty skips it
	Selections int           // Selection changes to POST when BaseURL is set
	Timeout    time.Duration // HTTP request timeout
	Verbose    bool          // Log every failed request
}

// Defaults.
const (
	DefaultRows       = 5000
	DefaultSeed       = 1
	DefaultDrivers    = 20
	DefaultWorkers    = 4
	DefaultSelections = 200
	DefaultTimeout    = 10 * time.Second
)

// ErrInvalidConfig marks a Config that cannot be run.
var ErrInvalidConfig = errors.New("invalid test data config")

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	return &Config{
		Rows:       DefaultRows,
		Seed:       DefaultSeed,
		Drivers:    DefaultDrivers,
		Comma:      ',',
		Workers:    DefaultWorkers,
		Selections: DefaultSelections,
		Timeout:    DefaultTimeout,
	}
}

func (c *Config) validate() error {
	switch {
	case c.Rows <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("rows must be positive"))
	case c.Drivers <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("drivers must be positive"))
	case c.Workers <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("workers must be positive"))
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	RowsGenerated    int
	RowsPitLane      int
	RowsUnclassified int
	RowsLoaded       int
	Circuits         int
	SelectionsPosted int
	SelectionsFailed int
	HighestSeq       uint64
	DisplayedSeq     uint64
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
