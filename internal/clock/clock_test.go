package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	local := time.FixedZone("JST", 9*60*60)
	ts := time.Date(2025, 3, 1, 9, 30, 15, 123456789, local)
	assert.Equal(t, "2025-03-01T00:30:15.123Z", Format(ts))
}

func TestTimestampUsesNowFunc(t *testing.T) {
	NowFunc = func() time.Time { return time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC) }
	defer func() { NowFunc = time.Now }()
	assert.Equal(t, "2024-12-31T23:59:59.000Z", Timestamp())
}

func TestParse(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      time.Time
		hasError    bool
	}{
		{
			description: "millisecond layout",
			input:       "2025-03-01T00:30:15.123Z",
			expect:      time.Date(2025, 3, 1, 0, 30, 15, 123000000, time.UTC),
		},
		{
			description: "microsecond precision",
			input:       "2025-03-01T00:30:15.123456Z",
			expect:      time.Date(2025, 3, 1, 0, 30, 15, 123456000, time.UTC),
		},
		{
			description: "offset converted to UTC",
			input:       "2025-03-01T09:30:15+09:00",
			expect:      time.Date(2025, 3, 1, 0, 30, 15, 0, time.UTC),
		},
		{
			description: "garbage",
			input:       "yesterday",
			hasError:    true,
		},
	}
	for _, testCase := range testCases {
		actual, err := Parse(testCase.input)
		if testCase.hasError {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.True(t, testCase.expect.Equal(actual), testCase.description)
	}
}
