package event

// Listener receives published events. It runs on the publishing goroutine
// and must not block.
type Listener func(*Event[any])

// Filter returns a listener that forwards only the given event types.
func Filter(listener Listener, types ...Type) Listener {
	allowed := make(map[Type]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return func(e *Event[any]) {
		if e.Context != nil && allowed[e.Context.EventType] {
			listener(e)
		}
	}
}
