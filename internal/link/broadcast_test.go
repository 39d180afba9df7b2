package link

import "testing"

func TestBroadcasterDeliversToEverySubscriber(t *testing.T) {
	b := NewBroadcaster[int](4)

	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	b.Publish(7)

	for i, ch := range []<-chan Message[int]{ch1, ch2} {
		select {
		case msg := <-ch:
			if msg.Lagged || msg.Value != 7 {
				t.Errorf("subscriber %d got %+v; want {Value: 7}", i, msg)
			}
		default:
			t.Errorf("subscriber %d received nothing", i)
		}
	}
}

func TestBroadcasterUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster[int](1)
	id, ch := b.Subscribe()

	b.Unsubscribe(id)

	_, ok := <-ch
	if ok {
		t.Error("channel still open after Unsubscribe")
	}
}

func TestBroadcasterLaggedSubscriberGetsMarker(t *testing.T) {
	b := NewBroadcaster[int](1)
	_, ch := b.Subscribe()

	b.Publish(1) // fills the buffer
	b.Publish(2) // should evict 1 and deliver a Lagged marker

	msg := <-ch
	if !msg.Lagged {
		t.Errorf("first received message = %+v; want Lagged marker", msg)
	}
}

func TestBroadcasterCloseAllClosesEverySubscriber(t *testing.T) {
	b := NewBroadcaster[int](1)
	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	b.CloseAll()

	if _, ok := <-ch1; ok {
		t.Error("ch1 still open after CloseAll")
	}
	if _, ok := <-ch2; ok {
		t.Error("ch2 still open after CloseAll")
	}
	if n := b.SubscriberCount(); n != 0 {
		t.Errorf("SubscriberCount() = %d after CloseAll; want 0", n)
	}
}

func TestBroadcasterSubscriberCount(t *testing.T) {
	b := NewBroadcaster[int](1)
	if b.SubscriberCount() != 0 {
		t.Fatal("new broadcaster has subscribers")
	}
	id, _ := b.Subscribe()
	if b.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount() = %d; want 1", b.SubscriberCount())
	}
	b.Unsubscribe(id)
	if b.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d after Unsubscribe; want 0", b.SubscriberCount())
	}
}
