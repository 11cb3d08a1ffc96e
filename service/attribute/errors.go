package attribute

import "errors"

var (
	// ErrSerialization is returned when a value cannot be encoded or decoded.
	ErrSerialization = errors.New("attribute: serialization failed")

	// ErrApplication is returned for an empty application name.
	ErrApplication = errors.New("attribute: application name is required")

	// ErrField is returned for an empty field name.
	ErrField = errors.New("attribute: field name is required")
)
