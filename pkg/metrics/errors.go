package metrics

import "errors"

// ErrExport is returned when the registry cannot be written or pushed.
var ErrExport = errors.New("metrics export failed")
