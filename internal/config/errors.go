package config

import "errors"

// Sentinel error kinds for configuration.
var (
	// ErrInvalidConfig marks a value the pipeline cannot run with.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks an unreadable config file or env layer.
	ErrLoadConfig = errors.New("load config failed")
)
