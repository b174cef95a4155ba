// Package service owns the loaded dataset and recomputes the dashboard view
// whenever the circuit selection changes.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/gridpulse/internal/adapters/repository"
	"github.com/okian/gridpulse/internal/domain/aggregate"
	"github.com/okian/gridpulse/internal/domain/figure"
	"github.com/okian/gridpulse/internal/domain/model"
	"github.com/okian/gridpulse/internal/domain/selection"
	"github.com/okian/gridpulse/pkg/logger"
	"github.com/okian/gridpulse/pkg/metrics"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Chart builders, replaceable for tests
	distribution func([]model.RaceResult) figure.Spec
	proportion   func([]model.AggregateRow) figure.Spec

	initial []string

	// Displayed view, guarded by mu
	current View
	started bool

	seq      atomic.Uint64
	inflight atomic.Int64

	recomputes atomic.Uint64
	failures   atomic.Uint64
	stale      atomic.Uint64

	logger logger.Logger
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:        store,
		distribution: figure.BuildDistribution,
		proportion:   figure.BuildProportion,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start computes the initial view. Every circuit is selected unless WithInitialSelection says otherwise.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("controller")
	}
	if s.store == nil {
		s.mu.Unlock()
		return ErrNoDataset
	}
	s.started = true
	s.mu.Unlock()

	initial := s.initial
	if initial == nil {
		initial = selection.Values(s.store.Circuits(ctx))
	}

	s.logger.Info(ctx, "starting dashboard controller...",
		logger.Int("rows", s.store.Count(ctx)),
		logger.Int("initialSelection", len(initial)),
	)

	view, err := s.Select(ctx, initial)
	if err != nil {
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return fmt.Errorf("initial view: %w", err)
	}

	s.logger.Info(ctx, "dashboard controller started",
		logger.Uint64("seq", view.Seq),
		logger.Int("rows", view.Rows),
		logger.Int("aggregates", len(view.Aggregates)),
	)
	return nil
}

// Stop marks the controller stopped. The last view stays readable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard controller stopped")
}

// Select recomputes the view for values and displays it unless a newer view won meanwhile.
// It returns the displayed view. On error the previously displayed view is returned unchanged.
func (s *Service) Select(ctx context.Context, values []string) (View, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return View{}, ErrNotStarted
	}

	sel := selection.New(values...)
	if missing := sel.Missing(s.store.Circuits(ctx)); len(missing) > 0 {
		err := fmt.Errorf("%w: %s", ErrUnknownCircuit, strings.Join(missing, ", "))
		s.fail(ctx, err)
		return s.Current(), err
	}
	if err := ctx.Err(); err != nil {
		return s.Current(), err
	}

	seq := s.seq.Add(1)
	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	view, err := s.compute(ctx, seq, sel)
	if err != nil {
		s.fail(ctx, err)
		return s.Current(), err
	}
	s.recomputes.Add(1)
	metrics.RecordRecompute(resultOK)

	return s.publish(ctx, view), nil
}

// compute filters, aggregates and builds both charts. Panics from the builders are
// converted to ErrRecompute.
func (s *Service) compute(ctx context.Context, seq uint64, sel selection.Selection) (view View, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRecompute, r)
		}
	}()

	start := time.Now()
	rows := selection.Filter(s.store.Rows(ctx), sel)
	aggs := aggregate.Aggregate(rows)

	view = View{
		Seq:          seq,
		ID:           uuid.NewString(),
		Selection:    sel.Values(),
		Rows:         len(rows),
		Aggregates:   aggs,
		Distribution: s.distribution(rows),
		Proportion:   s.proportion(aggs),
		ComputedAt:   time.Now(),
	}

	took := time.Since(start)
	metrics.RecordRecomputeLatency(float64(took.Microseconds()) / 1000)
	s.logger.Debug(ctx, "view computed",
		logger.Uint64("seq", seq),
		logger.Strings("selection", view.Selection),
		logger.Int("rows", view.Rows),
		logger.Duration("took", took),
	)
	return view, nil
}

// publish swaps in view if it is newer than the displayed one and returns whatever is displayed.
func (s *Service) publish(ctx context.Context, view View) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if view.Seq <= s.current.Seq {
		s.stale.Add(1)
		metrics.RecordStaleViewDiscarded()
		s.logger.Debug(ctx, "discarding stale view",
			logger.Uint64("seq", view.Seq),
			logger.Uint64("displayed", s.current.Seq),
		)
		return s.current
	}

	s.current = view
	metrics.UpdateDisplayedView(view.Seq, len(view.Selection), view.Rows, len(view.Aggregates))
	return view
}

func (s *Service) fail(ctx context.Context, err error) {
	s.failures.Add(1)
	metrics.RecordRecompute(resultError)
	s.logger.Warn(ctx, "selection rejected, keeping previous view", logger.Error(err))
}

// Current returns the displayed view. It is the zero View before Start.
func (s *Service) Current() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Options returns the circuit choices for the filter control.
func (s *Service) Options(ctx context.Context) []model.Option {
	if s.store == nil {
		return []model.Option{}
	}
	return s.store.Circuits(ctx)
}

// State reports Recomputing while any Select is building a view.
func (s *Service) State() State {
	if s.inflight.Load() > 0 {
		return Recomputing
	}
	return Idle
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":             s.started,
		"state":               s.State().String(),
		"recomputes":          s.recomputes.Load(),
		"failures":            s.failures.Load(),
		"staleViewsDiscarded": s.stale.Load(),
		"lastSequence":        s.seq.Load(),
		"displayedSequence":   s.current.Seq,
		"displayedSelection":  len(s.current.Selection),
		"displayedRows":       s.current.Rows,
		"displayedAggregates": len(s.current.Aggregates),
	}

	if s.store != nil {
		stats["rows"] = s.store.Count(ctx)
		stats["circuits"] = len(s.store.Circuits(ctx))
		if d, ok := s.store.(interface{ Dropped() int }); ok {
			stats["droppedRows"] = d.Dropped()
		}
	}

	return stats
}
