package identity

import (
	"github.com/ternarybob/arbor"
	"github.com/viant/participant/service/event"
	"github.com/viant/participant/validator"
)

type Option func(*Manager)

// WithGenerator replaces the default version 7 generator.
func WithGenerator(generator Generator) Option {
	return func(m *Manager) {
		m.retrier.Generator = generator
	}
}

// WithValidator sets the acceptance hook consulted for every candidate.
func WithValidator(v validator.Validator) Option {
	return func(m *Manager) {
		m.retrier.Validator = v
	}
}

func WithLogger(logger arbor.ILogger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithPublisher sets the lifecycle event publisher.
func WithPublisher(publisher *event.Publisher) Option {
	return func(m *Manager) {
		m.publisher = publisher
	}
}
