package events

import "github.com/google/uuid"

// NewSubscriber creates a subscriber with a fresh random identity.
func NewSubscriber() *Subscriber {
	return &Subscriber{ID: uuid.New().String()}
}
