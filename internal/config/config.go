// Package config defines the dashboard configuration and how it is loaded.
//
// Conventions:
// - Defaults come from New(ctx); Load layers a YAML file and GRIDPULSE_ env vars on top.
// - Every validation failure wraps ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataPath is the race results CSV read once at startup.
	DataPath string `koanf:"data_path"`

	// CSVDelimiter is the single field separator of DataPath.
	CSVDelimiter string `koanf:"csv_delimiter"`

	// Debug enables debug logging and disables static asset caching.
	Debug bool `koanf:"debug"`

	// ChartWidth and ChartHeight size rendered chart images in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// ChartFormat is the default image format: svg or png.
	ChartFormat string `koanf:"chart_format"`

	// ShutdownTimeoutSec bounds graceful HTTP shutdown.
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`
}

// New creates a Config with defaults. Context is accepted first to satisfy the
// project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		DataPath:           "f1_race_results.csv",
		CSVDelimiter:       ",",
		ChartWidth:         1000,
		ChartHeight:        560,
		ChartFormat:        "svg",
		ShutdownTimeoutSec: 5,
	}
}

var (
	logLevels    = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	logFormats   = map[string]bool{"text": true, "json": true}
	chartFormats = map[string]bool{"svg": true, "png": true}
)

const minChartSide = 100

// Validate checks every field and reports the first problem.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataPath == "":
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	case !logLevels[strings.ToLower(c.LogLevel)]:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	case !logFormats[strings.ToLower(c.LogFormat)]:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	case !chartFormats[strings.ToLower(c.ChartFormat)]:
		return fmt.Errorf("%w: chart_format %q", ErrInvalidConfig, c.ChartFormat)
	case c.ChartWidth < minChartSide || c.ChartHeight < minChartSide:
		return fmt.Errorf("%w: chart size %dx%d below %d", ErrInvalidConfig, c.ChartWidth, c.ChartHeight, minChartSide)
	case utf8.RuneCountInString(c.CSVDelimiter) != 1:
		return fmt.Errorf("%w: csv_delimiter %q must be one character", ErrInvalidConfig, c.CSVDelimiter)
	case c.ShutdownTimeoutSec <= 0:
		return fmt.Errorf("%w: shutdown_timeout_sec must be positive", ErrInvalidConfig)
	}
	return nil
}

// Comma returns CSVDelimiter as a rune, or ',' when unset.
func (c *Config) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}
