package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/viant/participant/validator"
)

// MaxRetries bounds the number of candidates generated for one request.
const MaxRetries = 10

// Generator produces candidate identifiers.
type Generator interface {
	Generate() (uuid.UUID, error)
}

// Retrier drives Generator and Validator until a candidate is accepted.
type Retrier struct {
	Generator Generator
	Validator validator.Validator
	// OnReject observes each rejected candidate.
	OnReject func(id string, attempt int)
}

// Next returns the first accepted candidate and the number of candidates
// generated. A generator failure is returned at once without consuming an
// attempt.
func (r *Retrier) Next(ctx context.Context) (string, int, error) {
	for attempt := 1; attempt <= MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", attempt - 1, err
		}
		candidate, err := r.Generator.Generate()
		if err != nil {
			return "", attempt - 1, fmt.Errorf("%w: %w", ErrGeneration, err)
		}
		id := candidate.String()
		if r.Validator == nil {
			return id, attempt, nil
		}
		ok, err := r.Validator.Validate(ctx, id)
		if err != nil {
			return "", attempt, fmt.Errorf("%w: %w", ErrValidator, err)
		}
		if ok {
			return id, attempt, nil
		}
		if r.OnReject != nil {
			r.OnReject(id, attempt)
		}
	}
	return "", MaxRetries, fmt.Errorf("%w: %d candidates rejected", ErrValidationExhausted, MaxRetries)
}

// Generate runs one retry loop with gen and v.
func Generate(ctx context.Context, gen Generator, v validator.Validator) (string, error) {
	r := Retrier{Generator: gen, Validator: v}
	id, _, err := r.Next(ctx)
	return id, err
}
