// Package boltstore is a storage.Store backed by a single bbolt file.
package boltstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/participant/storage"
	bolt "go.etcd.io/bbolt"
)

// DefaultBucket holds all keys when Options.Bucket is empty.
const DefaultBucket = "participant"

// Options configures the bbolt store.
type Options struct {
	// Path is the database file.
	Path string
	// Bucket groups the keys inside the file.
	Bucket string
	// Timeout bounds waiting for the file lock held by another process.
	Timeout time.Duration
}

// Store keeps every key in one bucket.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

var _ storage.Store = (*Store)(nil)

// Open opens or creates the database file and its bucket.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, errors.New("bolt: Options.Path is required")
	}
	if opts.Bucket == "" {
		opts.Bucket = DefaultBucket
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second
	}
	db, err := bolt.Open(opts.Path, 0o600, &bolt.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("%w: bolt: %w", storage.ErrUnavailable, err)
	}
	bucket := []byte(opts.Bucket)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt: create bucket %s: %w", opts.Bucket, err)
	}
	return &Store{db: db, bucket: bucket}, nil
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(s.bucket).Get([]byte(key)); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, s.wrap(err)
	}
	if value == nil {
		return "", false, nil
	}
	return string(value), true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidKey
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return s.wrapWrite(err)
	}
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	if key == "" {
		return storage.ErrInvalidKey
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
	if err != nil {
		return s.wrapWrite(err)
	}
	return nil
}

func (s *Store) Contains(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

func (s *Store) wrap(err error) error {
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	return err
}

func (s *Store) wrapWrite(err error) error {
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return s.wrap(err)
	}
	return fmt.Errorf("%w: %w", storage.ErrWrite, err)
}
