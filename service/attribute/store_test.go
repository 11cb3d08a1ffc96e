package attribute

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/participant/keyspace"
	"github.com/viant/participant/service/event"
	"github.com/viant/participant/storage"
	"github.com/viant/participant/storage/memory"
)

func newStore(t *testing.T, backend storage.Store, app string, opts ...Option) *Store {
	t.Helper()
	s, err := New(backend, keyspace.New("p"), app, opts...)
	require.NoError(t, err)
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	var testCases = []struct {
		description string
		value       any
		expect      any
	}{
		{description: "string", value: "A", expect: "A"},
		{description: "number", value: 42, expect: float64(42)},
		{description: "float", value: 0.25, expect: 0.25},
		{description: "bool", value: true, expect: true},
		{description: "null", value: nil, expect: nil},
		{description: "list", value: []string{"a", "b"}, expect: []any{"a", "b"}},
		{
			description: "nested",
			value:       map[string]any{"group": "B", "scores": []int{1, 2}},
			expect:      map[string]any{"group": "B", "scores": []any{float64(1), float64(2)}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			s := newStore(t, memory.New(), "exp1")
			require.NoError(t, s.Set(ctx, "field", tc.value))
			got, err := s.Get(ctx, "field", "default")
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestStore_Isolation(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	app1 := newStore(t, backend, "app1")
	app2 := newStore(t, backend, "app2")

	require.NoError(t, app1.Set(ctx, "k", "v1"))
	require.NoError(t, app2.Set(ctx, "k", "v2"))

	got, err := app1.Get(ctx, "k", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", got)
	got, err = app2.Get(ctx, "k", nil)
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.Equal(t, []string{"p.app1.k", "p.app2.k"}, backend.Keys())
}

func TestStore_DefaultAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, memory.New(), "exp1")

	got, err := s.Get(ctx, "missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)

	require.NoError(t, s.Set(ctx, "flag", false))
	got, err = s.Get(ctx, "flag", true)
	require.NoError(t, err)
	assert.Equal(t, false, got)

	require.NoError(t, s.Delete(ctx, "flag"))
	require.NoError(t, s.Delete(ctx, "flag"))
	exists, err := s.Exists(ctx, "flag")
	require.NoError(t, err)
	assert.False(t, exists)
	got, err = s.Get(ctx, "flag", "gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", got)
}

func TestStore_RawFallback(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	require.NoError(t, backend.Set(ctx, "p.exp1.legacy", "plain text"))
	s := newStore(t, backend, "exp1")

	got, err := s.Get(ctx, "legacy", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", got)

	var text string
	ok, err := s.Decode(ctx, "legacy", &text)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "plain text", text)

	var number int
	_, err = s.Decode(ctx, "legacy", &number)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestStore_Decode(t *testing.T) {
	type condition struct {
		Group string `json:"group"`
		Round int    `json:"round"`
	}
	ctx := context.Background()
	s := newStore(t, memory.New(), "exp1")
	require.NoError(t, s.Set(ctx, "condition", condition{Group: "A", Round: 2}))

	var got condition
	ok, err := s.Decode(ctx, "condition", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, condition{Group: "A", Round: 2}, got)

	ok, err = s.Decode(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "n", 42))
	var n int
	ok, err = s.Decode(ctx, "n", &n)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, n)
	generic, err := s.Get(ctx, "n", nil)
	require.NoError(t, err)
	assert.Equal(t, float64(42), generic)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	_, err := New(memory.New(), keyspace.New("p"), "")
	assert.ErrorIs(t, err, ErrApplication)

	backend := memory.New()
	s := newStore(t, backend, "exp1")
	assert.ErrorIs(t, s.Set(ctx, "bad", math.NaN()), ErrSerialization)
	assert.ErrorIs(t, s.Set(ctx, "bad", make(chan int)), ErrSerialization)
	assert.ErrorIs(t, s.Set(ctx, "", 1), ErrField)
	assert.Empty(t, backend.Keys())

	guarded := newStore(t, storage.NewGuard(nil, nil), "exp1")
	assert.ErrorIs(t, guarded.Set(ctx, "k", 1), storage.ErrUnavailable)
	got, err := guarded.Get(ctx, "k", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", got)
}

func TestStore_Events(t *testing.T) {
	ctx := context.Background()
	var received []*event.Event[any]
	publisher := event.NewPublisher(func(e *event.Event[any]) { received = append(received, e) })
	s := newStore(t, memory.New(), "exp1", WithPublisher(publisher))

	require.NoError(t, s.Set(ctx, "condition", "A"))
	require.NoError(t, s.Delete(ctx, "condition"))
	require.Len(t, received, 2)
	assert.Equal(t, event.AttributeSet, received[0].Context.EventType)
	assert.Equal(t, "p.exp1.condition", received[0].Context.Key)
	assert.Equal(t, "exp1", received[0].Context.AppName)
	assert.Equal(t, "A", received[0].Data)
	assert.Equal(t, event.AttributeDeleted, received[1].Context.EventType)
}
