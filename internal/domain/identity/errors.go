package identity

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMalformedAliases = errors.New("malformed alias table")
)
