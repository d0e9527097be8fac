package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no saved session exists
	ErrSessionNotFound = errors.New("session not found")

	// ErrCacheEmpty indicates that records were never cached
	ErrCacheEmpty = errors.New("record cache is empty")
)
