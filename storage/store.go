// Package storage defines the key-value surface the participant core is
// built on. Backends live in sub-packages (memory, fs, pebble, bolt,
// postgres); callers may supply their own implementation.
//
// Contract shared by every backend:
//   - Get of a missing key returns ("", false, nil).
//   - Remove of a missing key is not an error.
//   - Each call is atomic for its single key; no multi-key transaction is
//     assumed.
package storage

import "context"

// Store is the persistence adapter used by the identity and attribute
// services.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)

	Set(ctx context.Context, key, value string) error

	Remove(ctx context.Context, key string) error

	Contains(ctx context.Context, key string) (bool, error)
}
