package service

import (
	"github.com/okian/gridpulse/internal/domain/figure"
	"github.com/okian/gridpulse/internal/domain/model"
	"github.com/okian/gridpulse/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDistributionBuilder replaces the box chart builder.
func WithDistributionBuilder(fn func([]model.RaceResult) figure.Spec) Option {
	return func(s *Service) {
		if fn != nil {
			s.distribution = fn
		}
	}
}

// WithProportionBuilder replaces the stacked bar chart builder.
func WithProportionBuilder(fn func([]model.AggregateRow) figure.Spec) Option {
	return func(s *Service) {
		if fn != nil {
			s.proportion = fn
		}
	}
}

// WithInitialSelection sets the circuits shown after Start. By default every circuit is selected.
func WithInitialSelection(values ...string) Option {
	return func(s *Service) {
		if len(values) > 0 {
			s.initial = append([]string(nil), values...)
		}
	}
}
