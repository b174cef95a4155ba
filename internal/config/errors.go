package config

import "errors"

var (
	// ErrInvalidConfig marks a value that failed Validate.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a file, env or decode failure while layering sources.
	ErrLoadConfig = errors.New("load config failed")
)
