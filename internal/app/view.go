package service

import (
	"time"

	"github.com/okian/gridpulse/internal/domain/figure"
	"github.com/okian/gridpulse/internal/domain/model"
)

// State is the controller's interaction state.
type State int

const (
	Idle State = iota
	Recomputing
)

func (s State) String() string {
	if s == Recomputing {
		return "recomputing"
	}
	return "idle"
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// View is one computed dashboard state. Seq orders views; only the newest is displayed.
type View struct {
	Seq          uint64               `json:"seq" yaml:"seq"`
	ID           string               `json:"id" yaml:"id"`
	Selection    []string             `json:"selection" yaml:"selection"`
	Rows         int                  `json:"rows" yaml:"rows"`
	Aggregates   []model.AggregateRow `json:"aggregates" yaml:"aggregates"`
	Distribution figure.Spec          `json:"distribution" yaml:"-"`
	Proportion   figure.Spec          `json:"proportion" yaml:"-"`
	ComputedAt   time.Time            `json:"computed_at" yaml:"computed_at"`
}

// Zero reports whether no view has been computed yet.
func (v View) Zero() bool { return v.Seq == 0 }
