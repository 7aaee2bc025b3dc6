package export

import "errors"

// ErrWrite is returned when a cheatsheet cannot be written.
var ErrWrite = errors.New("write cheatsheet")
