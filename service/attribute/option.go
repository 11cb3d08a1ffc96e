package attribute

import (
	"github.com/ternarybob/arbor"
	"github.com/viant/participant/service/event"
)

type Option func(*Store)

func WithLogger(logger arbor.ILogger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithPublisher sets the publisher notified on set and delete.
func WithPublisher(publisher *event.Publisher) Option {
	return func(s *Store) {
		s.publisher = publisher
	}
}
