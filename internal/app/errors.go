package service

import "errors"

var (
	// ErrUnknownCircuit is returned when a selection names a circuit not in the dataset.
	ErrUnknownCircuit = errors.New("unknown circuit")
	// ErrRecompute wraps a failure recovered while building a view.
	ErrRecompute = errors.New("recompute failed")
	// ErrNotStarted is returned by Select before Start succeeds.
	ErrNotStarted = errors.New("service not started")
	// ErrNoDataset is returned by Start when the service has no store.
	ErrNoDataset = errors.New("no dataset configured")
)
