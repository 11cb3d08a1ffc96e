package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Guard degrades an unreachable store instead of failing the caller: reads
// report the key as absent, writes return ErrUnavailable. The first
// unavailability is passed to the report callback; later ones are silent.
// Any other write failure is normalised to wrap ErrWrite.
type Guard struct {
	store  Store
	report func(err error)
	once   sync.Once
}

var _ Store = (*Guard)(nil)

// NewGuard wraps store; a nil store behaves as Unavailable.
func NewGuard(store Store, report func(err error)) *Guard {
	if store == nil {
		store = Unavailable{}
	}
	return &Guard{store: store, report: report}
}

// Unwrap returns the guarded store.
func (g *Guard) Unwrap() Store { return g.store }

func (g *Guard) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := g.store.Get(ctx, key)
	if g.unavailable(err) {
		return "", false, nil
	}
	return value, ok, err
}

func (g *Guard) Contains(ctx context.Context, key string) (bool, error) {
	ok, err := g.store.Contains(ctx, key)
	if g.unavailable(err) {
		return false, nil
	}
	return ok, err
}

func (g *Guard) Set(ctx context.Context, key, value string) error {
	return g.writeErr(key, g.store.Set(ctx, key, value))
}

func (g *Guard) Remove(ctx context.Context, key string) error {
	return g.writeErr(key, g.store.Remove(ctx, key))
}

// Close closes the guarded store when it holds resources.
func (g *Guard) Close() error {
	if closer, ok := g.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (g *Guard) writeErr(key string, err error) error {
	switch {
	case err == nil:
		return nil
	case g.unavailable(err):
		return err
	case errors.Is(err, ErrWrite), errors.Is(err, ErrInvalidKey):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", ErrWrite, key, err)
	}
}

func (g *Guard) unavailable(err error) bool {
	if err == nil || !errors.Is(err, ErrUnavailable) {
		return false
	}
	g.once.Do(func() {
		if g.report != nil {
			g.report(err)
		}
	})
	return true
}

// Unavailable is a Store for environments without a persistence medium.
// Every call fails with ErrUnavailable, wrapped with Reason when set.
type Unavailable struct {
	Reason error
}

var _ Store = Unavailable{}

func (u Unavailable) Get(context.Context, string) (string, bool, error) {
	return "", false, u.err()
}

func (u Unavailable) Set(context.Context, string, string) error { return u.err() }

func (u Unavailable) Remove(context.Context, string) error { return u.err() }

func (u Unavailable) Contains(context.Context, string) (bool, error) { return false, u.err() }

func (u Unavailable) err() error {
	if u.Reason == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, u.Reason)
}
