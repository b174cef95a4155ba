package render

import "github.com/okian/gridpulse/pkg/logger"

// Option applies a configuration option to the GoChart renderer.
type Option func(*GoChart)

// WithSize sets the image size in pixels. Non-positive values keep the default.
func WithSize(width, height int) Option {
	return func(g *GoChart) {
		if width > 0 {
			g.width = width
		}
		if height > 0 {
			g.height = height
		}
	}
}

// WithFormat selects SVG or PNG output.
func WithFormat(f Format) Option {
	return func(g *GoChart) {
		if f != "" {
			g.format = f
		}
	}
}

// WithLogger sets a custom logger for render failures.
func WithLogger(log logger.Logger) Option {
	return func(g *GoChart) {
		if log != nil {
			g.logger = log
		}
	}
}
