package sources

import "errors"

// Sentinel error kinds for upstream sources.
var (
	ErrUpstream       = errors.New("upstream source failed")
	ErrUnexpectedPage = errors.New("unexpected page structure")
	ErrBreakerOpen    = errors.New("upstream circuit breaker open")
)
