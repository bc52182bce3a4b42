package cache

import "errors"

var (
	// ErrEntryNotFound is returned when a fingerprint is not cached.
	ErrEntryNotFound = errors.New("cache entry not found")
)
