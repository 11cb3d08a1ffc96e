package idgen

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/participant/internal/clock"
)

var canonical = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestGenerateFormat(t *testing.T) {
	g := NewGenerator()
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id, err := g.Generate()
		require.NoError(t, err)
		s := id.String()
		assert.Regexp(t, canonical, s)
		assert.NoError(t, Validate(s))
		assert.False(t, seen[s], "duplicate %s", s)
		seen[s] = true
	}
}

func TestGenerateTimestampPrefix(t *testing.T) {
	at := time.Date(2025, 11, 30, 12, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return at }
	defer func() { clock.NowFunc = time.Now }()

	g := &Generator{Entropy: bytes.NewReader(bytes.Repeat([]byte{0xff}, 10))}
	id, err := g.Generate()
	require.NoError(t, err)
	assert.True(t, at.Equal(Timestamp(id)))
	// all-ones entropy leaves only the version and variant bits forced
	assert.Equal(t, byte(0x7f), id[6])
	assert.Equal(t, byte(0xbf), id[8])
	assert.Equal(t, "019ad4a2-5600-7fff-bfff-ffffffffffff", id.String())
}

func TestGenerateFallback(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return at }
	defer func() { clock.NowFunc = time.Now }()

	var reported []error
	g := &Generator{
		Entropy:    failingReader{},
		Fallback:   newPseudoReader(),
		OnFallback: func(err error) { reported = append(reported, err) },
	}
	for i := 0; i < 3; i++ {
		id, err := g.Generate()
		require.NoError(t, err)
		assert.NoError(t, Validate(id.String()))
		assert.True(t, at.Equal(Timestamp(id)))
	}
	assert.Len(t, reported, 1)
}

func TestGenerateEntropyError(t *testing.T) {
	g := &Generator{Entropy: failingReader{}}
	_, err := g.Generate()
	assert.ErrorIs(t, err, ErrEntropy)

	g = &Generator{Entropy: failingReader{}, Fallback: failingReader{}}
	_, err = g.Generate()
	assert.ErrorIs(t, err, ErrEntropy)
}

func TestValidate(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		valid       bool
	}{
		{description: "v7", input: "019ad3fd-8a80-7c0f-b719-ee5d8c6d6cf6", valid: true},
		{description: "uppercase", input: "019AD3FD-8A80-7C0F-B719-EE5D8C6D6CF6"},
		{description: "v4", input: "1b4e28ba-2fa1-41d2-883f-0016d3cca427"},
		{description: "bad variant", input: "019ad3fd-8a80-7c0f-c719-ee5d8c6d6cf6"},
		{description: "urn form", input: "urn:uuid:019ad3fd-8a80-7c0f-b719-ee5d8c6d6cf6"},
		{description: "empty", input: ""},
	}
	for _, testCase := range testCases {
		err := Validate(testCase.input)
		if testCase.valid {
			assert.NoError(t, err, testCase.description)
		} else {
			assert.ErrorIs(t, err, ErrInvalid, testCase.description)
		}
	}
}
