// Package idgen produces the time-ordered 128-bit participant identifier.
//
// Layout (RFC 9562 version 7): 48-bit big-endian millisecond timestamp,
// 4-bit version (7), 12 random bits, 2-bit variant (10), 62 random bits.
// The clock is read through internal/clock and the random segments through
// an io.Reader, so tests can stub both.
package idgen
