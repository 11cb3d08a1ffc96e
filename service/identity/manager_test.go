package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/participant/internal/clock"
	"github.com/viant/participant/internal/idgen"
	"github.com/viant/participant/keyspace"
	"github.com/viant/participant/service/event"
	"github.com/viant/participant/storage"
	"github.com/viant/participant/storage/memory"
	"github.com/viant/participant/validator"
)

// faultyStore fails Set for failKey and Remove for removeFailKey.
type faultyStore struct {
	*memory.Store
	failKey       string
	removeFailKey string
}

func (s *faultyStore) Remove(ctx context.Context, key string) error {
	if key == s.removeFailKey {
		return storage.ErrWrite
	}
	return s.Store.Remove(ctx, key)
}

func (s *faultyStore) Set(ctx context.Context, key, value string) error {
	if key == s.failKey {
		return storage.ErrWrite
	}
	return s.Store.Set(ctx, key, value)
}

func freezeClock(t *testing.T, ts time.Time) {
	t.Helper()
	clock.NowFunc = func() time.Time { return ts }
	t.Cleanup(func() { clock.NowFunc = time.Now })
}

func TestManager_GetID(t *testing.T) {
	ctx := context.Background()
	freezeClock(t, time.Date(2025, 11, 30, 12, 0, 0, 0, time.UTC))
	store := memory.New()
	m := New(store, keyspace.New("p"))

	id, err := m.GetID(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, store.Keys())

	id, err = m.GetID(ctx, true)
	require.NoError(t, err)
	require.NoError(t, idgen.Validate(id))
	assert.Equal(t, []string{"p.browser_id", "p.created_at"}, store.Keys())

	createdAt, ok, err := store.Get(ctx, "p.created_at")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2025-11-30T12:00:00.000Z", createdAt)

	again, err := m.ID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Len(t, store.Keys(), 2)

	version, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, version)
}

func TestManager_RegenerateAfterDelete(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	freezeClock(t, created)
	store := memory.New()
	m := New(store, keyspace.New("p"))

	first, err := m.ID(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx))
	assert.Empty(t, store.Keys())
	exists, err := m.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	freezeClock(t, created.Add(time.Hour))
	second, err := m.ID(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	ts, ok, err := m.CreatedAt(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, created.Add(time.Hour), ts)
	_, ok, err = m.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_DeleteFailureKeepsID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	freezeClock(t, created)
	store := &faultyStore{Store: memory.New(), removeFailKey: "p.created_at"}
	m := New(store, keyspace.New("p"))

	first, err := m.ID(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Delete(ctx), storage.ErrWrite)
	assert.Equal(t, []string{"p.browser_id", "p.created_at"}, store.Keys())
	id, err := m.GetID(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, first, id)

	store.removeFailKey = ""
	require.NoError(t, m.Delete(ctx))
	assert.Empty(t, store.Keys())

	freezeClock(t, created.Add(time.Hour))
	second, err := m.ID(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	ts, ok, err := m.CreatedAt(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, created.Add(time.Hour), ts)
	_, ok, err = m.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_RegenerateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	freezeClock(t, created)
	m := New(memory.New(), keyspace.New("p"))

	first, err := m.ID(ctx)
	require.NoError(t, err)

	freezeClock(t, created.Add(24*time.Hour))
	second, err := m.Regenerate(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	record, err := m.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, record.BrowserID)
	assert.Equal(t, 7, record.Version)
	require.NotNil(t, record.CreatedAt)
	require.NotNil(t, record.UpdatedAt)
	assert.Equal(t, created, *record.CreatedAt)
	assert.Equal(t, created.Add(24*time.Hour), *record.UpdatedAt)
}

func TestManager_ValidatorRetries(t *testing.T) {
	ctx := context.Background()
	var seen []string
	store := memory.New()
	m := New(store, keyspace.New("p"), WithValidator(validator.Predicate(func(id string) bool {
		seen = append(seen, id)
		return len(seen) == 3
	})))

	id, err := m.ID(ctx)
	require.NoError(t, err)
	require.Len(t, seen, 3)
	assert.Equal(t, seen[2], id)
}

func TestManager_ValidationExhausted(t *testing.T) {
	ctx := context.Background()
	calls := 0
	var rejected []string
	publisher := event.NewPublisher(event.Filter(func(e *event.Event[any]) {
		rejected = append(rejected, e.Data.(string))
	}, event.IDRejected))
	store := memory.New()
	m := New(store, keyspace.New("p"), WithPublisher(publisher), WithValidator(validator.Predicate(func(string) bool {
		calls++
		return false
	})))

	id, err := m.ID(ctx)
	assert.ErrorIs(t, err, ErrValidationExhausted)
	assert.Empty(t, id)
	assert.Equal(t, MaxRetries, calls)
	assert.Len(t, rejected, MaxRetries)
	assert.Empty(t, store.Keys())
}

func TestManager_PartialCommitRollback(t *testing.T) {
	ctx := context.Background()
	var testCases = []struct {
		description string
		seed        map[string]string
		failKey     string
		regenerate  bool
		expectKeys  []string
		expectID    string
	}{
		{
			description: "first creation leaves nothing behind",
			failKey:     "p.created_at",
			expectKeys:  []string{},
		},
		{
			description: "regeneration restores previous id",
			seed: map[string]string{
				"p.browser_id": "019ad4a2-5600-7fff-bfff-ffffffffffff",
				"p.created_at": "2025-01-01T00:00:00.000Z",
			},
			failKey:    "p.updated_at",
			regenerate: true,
			expectKeys: []string{"p.browser_id", "p.created_at"},
			expectID:   "019ad4a2-5600-7fff-bfff-ffffffffffff",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			store := &faultyStore{Store: memory.New(), failKey: tc.failKey}
			for k, v := range tc.seed {
				require.NoError(t, store.Store.Set(ctx, k, v))
			}
			m := New(store, keyspace.New("p"))
			var err error
			if tc.regenerate {
				_, err = m.Regenerate(ctx)
			} else {
				_, err = m.ID(ctx)
			}
			assert.ErrorIs(t, err, storage.ErrWrite)
			assert.Equal(t, tc.expectKeys, store.Keys())
			id, err := m.GetID(ctx, false)
			require.NoError(t, err)
			assert.Equal(t, tc.expectID, id)
		})
	}
}

func TestManager_UnavailableStore(t *testing.T) {
	ctx := context.Background()
	var reports []error
	guard := storage.NewGuard(nil, func(err error) { reports = append(reports, err) })
	m := New(guard, keyspace.New("p"))

	id, err := m.GetID(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, id)

	_, err = m.ID(ctx)
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	_, ok, err := m.CreatedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, m.Delete(ctx), storage.ErrUnavailable)
	assert.Len(t, reports, 1)
}

func TestManager_GeneratorFailure(t *testing.T) {
	store := memory.New()
	m := New(store, keyspace.New("p"), WithGenerator(&sequence{err: errors.New("broken")}))
	_, err := m.ID(context.Background())
	assert.ErrorIs(t, err, ErrGeneration)
	assert.Empty(t, store.Keys())
}

func TestManager_Events(t *testing.T) {
	ctx := context.Background()
	var types []event.Type
	publisher := event.NewPublisher(func(e *event.Event[any]) {
		types = append(types, e.Context.EventType)
	})
	m := New(memory.New(), keyspace.New("p"), WithPublisher(publisher))

	_, err := m.ID(ctx)
	require.NoError(t, err)
	_, err = m.Regenerate(ctx)
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx))
	assert.Equal(t, []event.Type{event.IDCreated, event.IDRegenerated, event.IDDeleted}, types)
}

func TestManager_VersionInvalid(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Set(ctx, "p.browser_id", "not-a-uuid"))
	m := New(store, keyspace.New("p"))
	_, err := m.Version(ctx)
	assert.ErrorIs(t, err, idgen.ErrInvalid)
}
