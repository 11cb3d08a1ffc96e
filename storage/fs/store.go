package fs

import (
	"bytes"
	"context"
	"fmt"
	neturl "net/url"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/participant/storage"
)

// Store keeps one object per key under a base URL. Any afs scheme works
// (local path, file://, mem://, or a registered cloud scheme).
type Store struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Set writes value to the object for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	location := s.objectURL(key)
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader([]byte(value))); err != nil {
		return fmt.Errorf("%w: failed to upload %s: %w", storage.ErrWrite, location, err)
	}
	return nil
}

// Get reads the object for key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, storage.ErrInvalidKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	location := s.objectURL(key)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return "", false, fmt.Errorf("failed to check if %s exists: %w", location, err)
	}
	if !exists {
		return "", false, nil
	}

	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return string(data), true, nil
}

// Remove deletes the object for key; a missing object is ignored.
func (s *Store) Remove(ctx context.Context, key string) error {
	if key == "" {
		return storage.ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	location := s.objectURL(key)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check if %s exists: %w", location, err)
	}
	if !exists {
		return nil
	}
	if err := s.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("%w: failed to delete %s: %w", storage.ErrWrite, location, err)
	}
	return nil
}

// Contains reports whether the object for key exists.
func (s *Store) Contains(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, storage.ErrInvalidKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.fs.Exists(ctx, s.objectURL(key))
}

// objectURL returns the object location for a key. Keys are path-escaped so
// application or field names containing '/' stay in the base directory.
func (s *Store) objectURL(key string) string {
	return url.Join(s.baseURL, neturl.PathEscape(key))
}

// New creates a filesystem store rooted at baseURL, creating the directory
// when it does not exist.
func New(baseURL string) (*Store, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	fs := afs.New()

	ctx := context.Background()
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("%w: failed to create base directory: %w", storage.ErrUnavailable, err)
		}
	}

	baseURL = url.Normalize(baseURL, file.Scheme)

	return &Store{
		baseURL: baseURL,
		fs:      fs,
	}, nil
}
