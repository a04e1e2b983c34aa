package snapshot

import "errors"

var (
	// ErrNotFound is returned when a snapshot ID does not exist.
	ErrNotFound = errors.New("snapshot not found")
)
