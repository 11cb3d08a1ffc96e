package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/viant/participant/internal/clock"
	"github.com/viant/participant/internal/idgen"
	"github.com/viant/participant/keyspace"
	"github.com/viant/participant/service/event"
	"github.com/viant/participant/storage"
	"github.com/viant/participant/validator"
)

// Manager reads and writes the identity record. It holds no lock: two
// callers racing on an absent identifier may both generate, and the last
// write wins.
type Manager struct {
	store     storage.Store
	keys      keyspace.Space
	retrier   Retrier
	logger    arbor.ILogger
	publisher *event.Publisher
}

// New returns a Manager over store using keys.
func New(store storage.Store, keys keyspace.Space, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		keys:  keys,
		retrier: Retrier{
			Generator: idgen.NewGenerator(),
			Validator: validator.AcceptAll,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.retrier.OnReject = m.onReject
	return m
}

// Keys returns the key namespace.
func (m *Manager) Keys() keyspace.Space { return m.keys }

// GetID returns the stored identifier. When none is stored and generate is
// true a new one is generated, validated and persisted; when generate is
// false an empty string is returned and nothing is written.
func (m *Manager) GetID(ctx context.Context, generate bool) (string, error) {
	id, ok, err := m.store.Get(ctx, m.keys.BrowserID())
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}
	if !generate {
		return "", nil
	}
	return m.generate(ctx, "", false)
}

// ID returns the stored identifier, generating one when absent.
func (m *Manager) ID(ctx context.Context) (string, error) {
	return m.GetID(ctx, true)
}

// Regenerate replaces the identifier unconditionally. created_at is kept
// and updated_at is set when a record existed before.
func (m *Manager) Regenerate(ctx context.Context) (string, error) {
	previous, ok, err := m.store.Get(ctx, m.keys.BrowserID())
	if err != nil {
		return "", err
	}
	return m.generate(ctx, previous, ok)
}

// Exists reports whether an identifier is stored.
func (m *Manager) Exists(ctx context.Context) (bool, error) {
	return m.store.Contains(ctx, m.keys.BrowserID())
}

// CreatedAt returns the first-creation time.
func (m *Manager) CreatedAt(ctx context.Context) (time.Time, bool, error) {
	return m.timestamp(ctx, m.keys.CreatedAt())
}

// UpdatedAt returns the last regeneration time.
func (m *Manager) UpdatedAt(ctx context.Context) (time.Time, bool, error) {
	return m.timestamp(ctx, m.keys.UpdatedAt())
}

// Version returns the UUID version of the stored identifier, or 0 when
// none is stored.
func (m *Manager) Version(ctx context.Context) (int, error) {
	id, err := m.GetID(ctx, false)
	if err != nil || id == "" {
		return 0, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", idgen.ErrInvalid, id, err)
	}
	return int(parsed.Version()), nil
}

// Record returns a snapshot of the identity record without generating.
func (m *Manager) Record(ctx context.Context) (*Record, error) {
	record := &Record{}
	id, err := m.GetID(ctx, false)
	if err != nil {
		return nil, err
	}
	record.BrowserID = id
	if id != "" {
		if record.Version, err = m.Version(ctx); err != nil {
			return nil, err
		}
	}
	if ts, ok, err := m.CreatedAt(ctx); err != nil {
		return nil, err
	} else if ok {
		record.CreatedAt = &ts
	}
	if ts, ok, err := m.UpdatedAt(ctx); err != nil {
		return nil, err
	} else if ok {
		record.UpdatedAt = &ts
	}
	return record, nil
}

// Delete removes updated_at, created_at and browser_id in that order and
// stops at the first failure, so a failed delete leaves the identifier in
// place and can be retried. Missing keys are not an error.
func (m *Manager) Delete(ctx context.Context) error {
	previous, _, err := m.store.Get(ctx, m.keys.BrowserID())
	if err != nil {
		return err
	}
	for _, key := range []string{m.keys.UpdatedAt(), m.keys.CreatedAt(), m.keys.BrowserID()} {
		if err := m.store.Remove(ctx, key); err != nil {
			return err
		}
	}
	if m.logger != nil {
		m.logger.Warn().Str("prefix", m.keys.Prefix).Str("browser_id", previous).Msg("browser id deleted")
	}
	m.emit(event.IDDeleted, m.keys.BrowserID(), previous)
	return nil
}

func (m *Manager) generate(ctx context.Context, previous string, hadPrevious bool) (string, error) {
	id, attempts, err := m.retrier.Next(ctx)
	if err != nil {
		if m.logger != nil {
			m.logger.Error().Err(err).Str("prefix", m.keys.Prefix).Str("attempts", strconv.Itoa(attempts)).Msg("browser id generation failed")
		}
		return "", err
	}
	if err := m.store.Set(ctx, m.keys.BrowserID(), id); err != nil {
		return "", err
	}

	created, err := m.store.Contains(ctx, m.keys.CreatedAt())
	if err != nil {
		return "", m.rollback(ctx, previous, hadPrevious, err)
	}
	key, eventType := m.keys.CreatedAt(), event.IDCreated
	if created {
		key, eventType = m.keys.UpdatedAt(), event.IDRegenerated
	}
	if err := m.store.Set(ctx, key, clock.Timestamp()); err != nil {
		return "", m.rollback(ctx, previous, hadPrevious, err)
	}

	if m.logger != nil {
		m.logger.Info().Str("prefix", m.keys.Prefix).Str("browser_id", id).Str("attempts", strconv.Itoa(attempts)).Msg(string(eventType))
	}
	m.emit(eventType, m.keys.BrowserID(), id)
	return id, nil
}

// rollback restores browser_id to its value before the failed generation so
// that no identifier is left without its timestamp.
func (m *Manager) rollback(ctx context.Context, previous string, hadPrevious bool, cause error) error {
	var err error
	if hadPrevious {
		err = m.store.Set(ctx, m.keys.BrowserID(), previous)
	} else {
		err = m.store.Remove(ctx, m.keys.BrowserID())
	}
	if err != nil {
		if m.logger != nil {
			m.logger.Error().Err(err).Str("prefix", m.keys.Prefix).Msg("browser id rollback failed")
		}
		return errors.Join(cause, fmt.Errorf("rollback: %w", err))
	}
	return cause
}

func (m *Manager) onReject(id string, attempt int) {
	if m.logger != nil {
		m.logger.Debug().Str("browser_id", id).Str("attempt", strconv.Itoa(attempt)).Msg("candidate rejected")
	}
	m.emit(event.IDRejected, m.keys.BrowserID(), id)
}

func (m *Manager) timestamp(ctx context.Context, key string) (time.Time, bool, error) {
	value, ok, err := m.store.Get(ctx, key)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	ts, err := clock.Parse(value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", key, err)
	}
	return ts, true, nil
}

func (m *Manager) emit(eventType event.Type, key string, data any) {
	m.publisher.Emit(&event.Context{Prefix: m.keys.Prefix, EventType: eventType, Key: key}, data, nil)
}
