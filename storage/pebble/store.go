// Package pebblestore is a storage.Store backed by an embedded Pebble
// database, suited to desktop clients that keep participant state in a
// local data directory.
package pebblestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/viant/participant/storage"
)

// Options configures the Pebble store wrapper.
type Options struct {
	// DataDir is the path to the Pebble database directory.
	DataDir string
	// Sync requests a WAL fsync on every write.
	Sync bool
	// PebbleOptions allows advanced tuning of Pebble. If nil, defaults are used.
	PebbleOptions *pebble.Options
}

// Store wraps a Pebble database instance.
type Store struct {
	inner     *pebble.DB
	writeOpts *pebble.WriteOptions
}

var _ storage.Store = (*Store)(nil)

// Open creates or opens a Pebble database with the provided options.
func Open(opts Options) (*Store, error) {
	if opts.DataDir == "" {
		return nil, errors.New("pebble: Options.DataDir is required")
	}
	po := opts.PebbleOptions
	if po == nil {
		po = &pebble.Options{}
	}
	inner, err := pebble.Open(opts.DataDir, po)
	if err != nil {
		return nil, fmt.Errorf("%w: pebble: %w", storage.ErrUnavailable, err)
	}
	writeOpts := pebble.NoSync
	if opts.Sync {
		writeOpts = pebble.Sync
	}
	return &Store{inner: inner, writeOpts: writeOpts}, nil
}

// Close closes the Pebble database. Calls after Close fail with
// storage.ErrUnavailable.
func (s *Store) Close() error {
	if s == nil || s.inner == nil {
		return nil
	}
	err := s.inner.Close()
	s.inner = nil
	return err
}

// Get copies the value for the given key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if s.inner == nil {
		return "", false, storage.ErrUnavailable
	}
	val, closer, err := s.inner.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	defer closer.Close()
	return string(val), true, nil
}

// Set sets a key to a value.
func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidKey
	}
	if s.inner == nil {
		return storage.ErrUnavailable
	}
	if err := s.inner.Set([]byte(key), []byte(value), s.writeOpts); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWrite, err)
	}
	return nil
}

// Remove deletes a key. Pebble treats deletes of missing keys as no-ops.
func (s *Store) Remove(_ context.Context, key string) error {
	if s.inner == nil {
		return storage.ErrUnavailable
	}
	if err := s.inner.Delete([]byte(key), s.writeOpts); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWrite, err)
	}
	return nil
}

// Contains reports whether key is present.
func (s *Store) Contains(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}
