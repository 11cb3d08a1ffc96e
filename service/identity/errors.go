package identity

import "errors"

var (
	// ErrGeneration is returned when the entropy source failed. It is never
	// retried.
	ErrGeneration = errors.New("identity: generation failed")

	// ErrValidationExhausted is returned when the validator rejected every
	// candidate up to MaxRetries.
	ErrValidationExhausted = errors.New("identity: validation exhausted")

	// ErrValidator is returned when the validator itself failed.
	ErrValidator = errors.New("identity: validator failed")
)
