package service

import "errors"

// ErrStage wraps every pipeline stage failure.
var ErrStage = errors.New("pipeline stage failed")
