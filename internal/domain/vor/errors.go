package vor

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidLeague = errors.New("invalid league configuration")
	ErrMissingScore  = errors.New("player has no expected_ppg")
)
