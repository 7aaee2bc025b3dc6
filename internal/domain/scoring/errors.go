package scoring

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidLeague     = errors.New("invalid league configuration")
	ErrInvalidDirectives = errors.New("invalid score directives")
)
