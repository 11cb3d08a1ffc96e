package attribute

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/viant/participant/keyspace"
	"github.com/viant/participant/service/event"
	"github.com/viant/participant/storage"
)

// Store reads and writes the attributes of one application.
type Store struct {
	store     storage.Store
	keys      keyspace.Space
	appName   string
	logger    arbor.ILogger
	publisher *event.Publisher
}

// New returns an attribute Store scoped to appName.
func New(store storage.Store, keys keyspace.Space, appName string, opts ...Option) (*Store, error) {
	if appName == "" {
		return nil, ErrApplication
	}
	s := &Store{store: store, keys: keys, appName: appName}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AppName returns the application namespace.
func (s *Store) AppName() string { return s.appName }

// Key returns the storage key for field.
func (s *Store) Key(field string) string {
	return s.keys.Attribute(s.appName, field)
}

// Set encodes value and writes it.
func (s *Store) Set(ctx context.Context, field string, value any) error {
	if field == "" {
		return ErrField
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSerialization, field, err)
	}
	key := s.Key(field)
	if err := s.store.Set(ctx, key, string(data)); err != nil {
		return err
	}
	s.emit(event.AttributeSet, key, value)
	return nil
}

// Get returns the decoded value of field, or def when field is absent.
// Numbers decode as float64, objects as map[string]any; use Decode to read
// a value back into its original type, for example an int.
func (s *Store) Get(ctx context.Context, field string, def any) (any, error) {
	raw, ok, err := s.raw(ctx, field)
	if err != nil || !ok {
		return def, err
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		if s.logger != nil {
			s.logger.Debug().Str("key", s.Key(field)).Err(err).Msg("attribute is not JSON, returning raw value")
		}
		return raw, nil
	}
	return value, nil
}

// Decode reads field into dest. It reports false when the field is absent.
// A non-JSON value can only be decoded into a *string.
func (s *Store) Decode(ctx context.Context, field string, dest any) (bool, error) {
	raw, ok, err := s.raw(ctx, field)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		if target, isString := dest.(*string); isString {
			*target = raw
			return true, nil
		}
		return false, fmt.Errorf("%w: %s: %w", ErrSerialization, field, err)
	}
	return true, nil
}

// Exists reports whether field is stored.
func (s *Store) Exists(ctx context.Context, field string) (bool, error) {
	if field == "" {
		return false, ErrField
	}
	return s.store.Contains(ctx, s.Key(field))
}

// Delete removes field. An absent field is not an error.
func (s *Store) Delete(ctx context.Context, field string) error {
	if field == "" {
		return ErrField
	}
	key := s.Key(field)
	if err := s.store.Remove(ctx, key); err != nil {
		return err
	}
	s.emit(event.AttributeDeleted, key, nil)
	return nil
}

func (s *Store) raw(ctx context.Context, field string) (string, bool, error) {
	if field == "" {
		return "", false, ErrField
	}
	return s.store.Get(ctx, s.Key(field))
}

func (s *Store) emit(eventType event.Type, key string, data any) {
	s.publisher.Emit(&event.Context{Prefix: s.keys.Prefix, AppName: s.appName, EventType: eventType, Key: key}, data, nil)
}
