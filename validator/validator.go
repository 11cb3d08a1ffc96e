// Package validator defines the hook consulted before a freshly generated
// identifier is accepted. A typical validator asks a server whether the
// candidate is already registered.
//
// A Validator may return immediately or block (for example on a network
// round-trip); the identity service simply waits. No timeout is imposed
// beyond whatever the caller's context carries.
package validator

import "context"

// Validator accepts or rejects a candidate identifier. Returning an error
// aborts generation; returning false asks for another candidate.
type Validator interface {
	Validate(ctx context.Context, id string) (bool, error)
}

// Func adapts a context-aware function to Validator.
type Func func(ctx context.Context, id string) (bool, error)

// Validate calls f.
func (f Func) Validate(ctx context.Context, id string) (bool, error) {
	return f(ctx, id)
}

// Predicate adapts a plain synchronous predicate to Validator.
type Predicate func(id string) bool

// Validate calls p.
func (p Predicate) Validate(_ context.Context, id string) (bool, error) {
	return p(id), nil
}

// AcceptAll is the default: every candidate is accepted.
var AcceptAll Validator = Predicate(func(string) bool { return true })
