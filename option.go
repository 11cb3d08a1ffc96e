package participant

import (
	"github.com/ternarybob/arbor"
	"github.com/viant/participant/service/event"
	"github.com/viant/participant/service/identity"
	"github.com/viant/participant/storage"
	"github.com/viant/participant/tracing"
	"github.com/viant/participant/validator"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures a Service
type Option func(s *Service)

// WithPrefix sets the key prefix; an empty prefix keeps the default.
func WithPrefix(prefix string) Option {
	return func(s *Service) {
		s.prefix = prefix
	}
}

// WithStore sets the persistence medium. Without it an in-memory store is
// used.
func WithStore(store storage.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithValidator sets the hook consulted for every generated candidate.
func WithValidator(v validator.Validator) Option {
	return func(s *Service) {
		s.validator = v
	}
}

// WithGenerator replaces the version 7 generator, mostly for tests.
func WithGenerator(generator identity.Generator) Option {
	return func(s *Service) {
		s.generator = generator
	}
}

// WithLogger sets the structured logger. Without it nothing is logged.
func WithLogger(logger arbor.ILogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithListener registers lifecycle event listeners.
func WithListener(listeners ...event.Listener) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, listeners...)
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The first
// successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter, for example
// OTLP, Jaeger or Zipkin. The first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
