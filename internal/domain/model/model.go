// Package model contains domain models passed between layers.
package model

import (
	"strconv"

	"github.com/okian/gridpulse/internal/domain/outcome"
)

// RaceResult is one driver's result in one race.
type RaceResult struct {
	CircuitName string `json:"circuit_name" yaml:"circuit_name"`
	Grid        int    `json:"grid" yaml:"grid"`         // starting slot, > 0 after load
	Position    int    `json:"position" yaml:"position"` // 0 when the driver was not classified

	// Optional columns carried through when the source has them.
	RaceID string `json:"race_id,omitempty" yaml:"race_id,omitempty"`
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	Year   int    `json:"year,omitempty" yaml:"year,omitempty"`
}

// Field names a column of RaceResult by its source header.
type Field string

const (
	FieldCircuitName Field = "circuitName"
	FieldGrid        Field = "grid"
	FieldPosition    Field = "position"
	FieldRaceID      Field = "raceId"
	FieldDriver      Field = "driverRef"
	FieldYear        Field = "year"
)

// Value returns the string form of field, or false when the field is unknown.
func (r RaceResult) Value(f Field) (string, bool) {
	switch f {
	case FieldCircuitName:
		return r.CircuitName, true
	case FieldGrid:
		return strconv.Itoa(r.Grid), true
	case FieldPosition:
		return strconv.Itoa(r.Position), true
	case FieldRaceID:
		return r.RaceID, true
	case FieldDriver:
		return r.Driver, true
	case FieldYear:
		return strconv.Itoa(r.Year), true
	default:
		return "", false
	}
}

// AggregateRow is the share of one outcome category among results from one grid slot.
type AggregateRow struct {
	Grid       int              `json:"grid" yaml:"grid"`
	Category   outcome.Category `json:"category" yaml:"category"`
	Count      int              `json:"count" yaml:"count"`
	Proportion float64          `json:"proportion" yaml:"proportion"` // percent, 2 decimals
}

// Option is a selectable filter value.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}
