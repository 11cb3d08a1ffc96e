// Package tracing wraps OpenTelemetry so that participant operations can be
// traced without callers importing the SDK. Until Init or InitWithExporter
// is called spans are no-ops.
package tracing
