package repository

import "github.com/okian/gridpulse/pkg/logger"

// Option applies a configuration option to the loader.
type Option func(*loader)

// WithComma sets the field delimiter. Zero keeps ','.
func WithComma(r rune) Option {
	return func(l *loader) {
		if r != 0 {
			l.comma = r
		}
	}
}

// WithLogger sets a custom logger for load diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(l *loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithSource overrides the name reported in errors and logs for Read.
func WithSource(name string) Option {
	return func(l *loader) {
		if name != "" {
			l.source = name
		}
	}
}
