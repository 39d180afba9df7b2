package events

// Event is anything the bus can publish: a type tag plus an opaque
// payload. Subscribers type-assert the payload themselves.
type Event interface {
	GetType() string
	GetData() interface{}
}

// DefaultEvent is the bus's own Event implementation, used for every
// publish unless a caller supplies a custom Event.
type DefaultEvent struct {
	Type string
	Data interface{}
}

func NewDefaultEvent(eventType string, data interface{}) *DefaultEvent {
	return &DefaultEvent{Type: eventType, Data: data}
}

func (e *DefaultEvent) GetType() string       { return e.Type }
func (e *DefaultEvent) GetData() interface{}  { return e.Data }

// Subscriber identifies a registered handler. Its only field is an ID, so
// two Subscriber values are comparable and safe to use as map keys even
// though the handler function itself is stored separately.
type Subscriber struct {
	ID string
}

// Handler is called, in its own goroutine, once per matching Publish.
type Handler func(event Event)
