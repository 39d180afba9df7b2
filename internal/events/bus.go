// Package events is a small in-process publish/subscribe bus used for
// cross-component notifications that aren't part of the robot-response
// broadcast fan-out owned by internal/link — namely internal/control's
// ControlChanged and ControlLost notices and internal/link's disconnect
// and protocol-error notices, all of which internal/hub needs without
// either package importing the hub.
package events

import "github.com/shaply/rmibridge/internal/safe"

// Bus defines the contract for event-driven communication: thread-safe
// publish/subscribe with typed events and handlers run asynchronously.
type Bus interface {
	// Subscribe registers a handler for events of a specific type. Pass
	// nil to have a fresh Subscriber minted. Returns the subscriber so
	// the caller can Unsubscribe later.
	Subscribe(eventType string, subscriber *Subscriber, handler Handler) *Subscriber

	// Unsubscribe removes a subscriber from an event type. No-op if the
	// subscriber is nil or was never subscribed.
	Unsubscribe(eventType string, subscriber *Subscriber)

	// Publish sends an event to every current subscriber of its type.
	// Handlers run asynchronously; Publish does not wait for them.
	Publish(event Event)

	// PublishData is a convenience wrapper that boxes data in a
	// DefaultEvent before publishing.
	PublishData(eventType string, data interface{})
}

// bus is the default Bus implementation: one subscriber set per event
// type, plus a handler lookup keyed by subscriber.
//
// If an event type ends up with zero subscribers, Publish is simply a
// no-op for it; nothing needs to be torn down.
type bus struct {
	subscriptions *safe.Map[string, *safe.Set[Subscriber]]
	handlers      *safe.Map[Subscriber, Handler]
}

// NewBus constructs an empty event bus.
func NewBus() Bus {
	return &bus{
		subscriptions: safe.NewMap[string, *safe.Set[Subscriber]](),
		handlers:      safe.NewMap[Subscriber, Handler](),
	}
}

func (b *bus) Subscribe(eventType string, subscriber *Subscriber, handler Handler) *Subscriber {
	if subscriber == nil {
		subscriber = NewSubscriber()
	}

	b.handlers.Set(*subscriber, handler)

	set, ok := b.subscriptions.Get(eventType)
	if !ok {
		set = safe.NewSet[Subscriber]()
		b.subscriptions.Set(eventType, set)
	}
	set.Add(*subscriber)

	return subscriber
}

func (b *bus) Unsubscribe(eventType string, subscriber *Subscriber) {
	if subscriber == nil {
		return
	}
	if set, ok := b.subscriptions.Get(eventType); ok {
		set.Remove(*subscriber)
	}
	b.handlers.Delete(*subscriber)
}

func (b *bus) Publish(event Event) {
	if event == nil {
		return
	}
	set, ok := b.subscriptions.Get(event.GetType())
	if !ok {
		return
	}
	for _, sub := range set.Values() {
		if handler, ok := b.handlers.Get(sub); ok {
			go handler(event)
		}
	}
}

func (b *bus) PublishData(eventType string, data interface{}) {
	b.Publish(NewDefaultEvent(eventType, data))
}
