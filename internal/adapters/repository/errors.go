package repository

import "errors"

// Sentinel kinds for artifact errors.
var (
	ErrNotFound        = errors.New("artifact not found")
	ErrInvalidArtifact = errors.New("invalid artifact")
	ErrInvalidDate     = errors.New("invalid run date")
)
