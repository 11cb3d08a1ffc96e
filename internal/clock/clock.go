package clock

import "time"

// Layout is the textual form of stored timestamps: UTC, millisecond
// precision, explicit Z marker.
const Layout = "2006-01-02T15:04:05.000Z"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Timestamp returns the current instant formatted with Layout.
func Timestamp() string { return Format(Now()) }

// Format renders t in UTC with Layout.
func Format(t time.Time) string { return t.UTC().Format(Layout) }

// Parse accepts Layout as well as any RFC 3339 value, so timestamps written
// with a different fraction length (e.g. microseconds) still load.
func Parse(value string) (time.Time, error) {
	if t, err := time.Parse(Layout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
