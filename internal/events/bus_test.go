package events

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	b := NewBus()

	var received int32
	var data interface{}
	b.Subscribe("robot.status", nil, func(event Event) {
		atomic.AddInt32(&received, 1)
		data = event.GetData()
	})

	b.PublishData("robot.status", "online")
	time.Sleep(10 * time.Millisecond)

	if atomic.LoadInt32(&received) != 1 {
		t.Errorf("received = %d; want 1", received)
	}
	if data != "online" {
		t.Errorf("data = %v; want online", data)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	b := NewBus()

	var count int32
	sub := b.Subscribe("e", nil, func(event Event) {
		atomic.AddInt32(&count, 1)
	})

	b.PublishData("e", nil)
	time.Sleep(10 * time.Millisecond)

	b.Unsubscribe("e", sub)
	b.PublishData("e", nil)
	time.Sleep(10 * time.Millisecond)

	if atomic.LoadInt32(&count) != 1 {
		t.Errorf("count = %d after unsubscribe; want 1", count)
	}
}

func TestBusMultipleSubscribers(t *testing.T) {
	b := NewBus()

	var c1, c2 int32
	b.Subscribe("e", nil, func(event Event) { atomic.AddInt32(&c1, 1) })
	b.Subscribe("e", nil, func(event Event) { atomic.AddInt32(&c2, 1) })

	b.PublishData("e", nil)
	time.Sleep(10 * time.Millisecond)

	if atomic.LoadInt32(&c1) != 1 || atomic.LoadInt32(&c2) != 1 {
		t.Errorf("c1=%d c2=%d; want 1, 1", c1, c2)
	}
}

func TestBusPublishToNoSubscribers(t *testing.T) {
	b := NewBus()
	// Should not panic.
	b.PublishData("nothing.subscribed", "data")
}

func TestBusDistinctEventTypesIsolated(t *testing.T) {
	b := NewBus()

	var robotCount, userCount int32
	b.Subscribe("robot", nil, func(event Event) { atomic.AddInt32(&robotCount, 1) })
	b.Subscribe("user", nil, func(event Event) { atomic.AddInt32(&userCount, 1) })

	b.PublishData("robot", nil)
	b.PublishData("robot", nil)
	b.PublishData("user", nil)
	time.Sleep(10 * time.Millisecond)

	if atomic.LoadInt32(&robotCount) != 2 {
		t.Errorf("robotCount = %d; want 2", robotCount)
	}
	if atomic.LoadInt32(&userCount) != 1 {
		t.Errorf("userCount = %d; want 1", userCount)
	}
}
