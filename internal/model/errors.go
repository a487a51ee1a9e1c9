package model

import "errors"

var (
	// ErrNotFound is returned when no user matches the requested id.
	ErrNotFound = errors.New("user not found")
	// ErrUnknownBackend is returned for an unsupported storage backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)
