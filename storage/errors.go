package storage

import "errors"

// Common storage errors. Backends wrap them so callers can rely on
// errors.Is instead of string comparisons.

var (
	// ErrUnavailable is returned when the underlying medium cannot be
	// reached at all (not opened, closed, or absent in this environment).
	ErrUnavailable = errors.New("storage: unavailable")

	// ErrWrite is returned when the medium rejected a write or remove.
	ErrWrite = errors.New("storage: write rejected")

	// ErrInvalidKey indicates that the supplied key is empty.
	ErrInvalidKey = errors.New("storage: invalid key")
)
