package event

import "time"

// Type names a lifecycle event.
type Type string

const (
	IDCreated          Type = "id.created"
	IDRegenerated      Type = "id.regenerated"
	IDDeleted          Type = "id.deleted"
	IDRejected         Type = "id.rejected"
	StorageUnavailable Type = "storage.unavailable"
	EntropyFallback    Type = "idgen.fallback"
	AttributeSet       Type = "attribute.set"
	AttributeDeleted   Type = "attribute.deleted"
)

type Context struct {
	Prefix    string `json:"prefix"`
	AppName   string `json:"appName,omitempty"`
	EventType Type   `json:"eventType"`
	Key       string `json:"key,omitempty"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}

// Error returns the error carried in Data, if any.
func (e *Event[T]) Error() error {
	if err, ok := any(e.Data).(error); ok {
		return err
	}
	return nil
}
