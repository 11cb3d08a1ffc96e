package event

import (
	"sync"

	"github.com/viant/participant/internal/clock"
)

// Publisher fans events out to registered listeners synchronously, in
// registration order. The zero value is ready to use.
type Publisher struct {
	mux       sync.RWMutex
	listeners []Listener
}

func NewPublisher(listeners ...Listener) *Publisher {
	return &Publisher{listeners: listeners}
}

// Subscribe registers a listener.
func (p *Publisher) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	p.mux.Lock()
	p.listeners = append(p.listeners, listener)
	p.mux.Unlock()
}

// Publish stamps and delivers event. A nil publisher drops the event.
func (p *Publisher) Publish(event *Event[any]) {
	if p == nil || event == nil {
		return
	}
	event.CreatedAt = clock.Now()
	p.mux.RLock()
	listeners := p.listeners
	p.mux.RUnlock()
	for _, listener := range listeners {
		listener(event)
	}
}

// Emit builds and publishes an event in one call.
func (p *Publisher) Emit(ctx *Context, data any, metadata map[string]interface{}) {
	if p == nil {
		return
	}
	e := NewEvent[any](ctx, data)
	for k, v := range metadata {
		e.Metadata[k] = v
	}
	p.Publish(e)
}
