package control

import (
	"errors"
	"testing"
	"time"

	"github.com/shaply/rmibridge/internal/errs"
	"github.com/shaply/rmibridge/internal/events"
)

func TestArbiterRequestGrantsFreeLease(t *testing.T) {
	a := NewArbiter(events.NewBus())

	if err := a.Request("s1"); err != nil {
		t.Fatalf("Request on free lease: %v", err)
	}
	if !a.HasControl("s1") {
		t.Error("HasControl(s1) = false after grant")
	}
	if a.Status() != "s1" {
		t.Errorf("Status() = %q; want s1", a.Status())
	}
}

func TestArbiterRequestDeniedForOtherHolder(t *testing.T) {
	a := NewArbiter(events.NewBus())

	if err := a.Request("s1"); err != nil {
		t.Fatalf("Request(s1): %v", err)
	}

	err := a.Request("s2")
	if err == nil {
		t.Fatal("Request(s2) = nil; want denied")
	}
	if !errors.Is(err, errs.ErrControlDenied) {
		t.Errorf("Request(s2) = %v; want errs.ErrControlDenied", err)
	}
	if a.HasControl("s2") {
		t.Error("HasControl(s2) = true; want false")
	}
}

func TestArbiterRequestReentrantForSameHolder(t *testing.T) {
	a := NewArbiter(events.NewBus())

	if err := a.Request("s1"); err != nil {
		t.Fatalf("Request(s1): %v", err)
	}
	if err := a.Request("s1"); err != nil {
		t.Fatalf("re-Request(s1): %v", err)
	}
}

func TestArbiterRelease(t *testing.T) {
	a := NewArbiter(events.NewBus())
	a.Request("s1")

	a.Release("s1")
	if a.HasControl("s1") {
		t.Error("HasControl(s1) = true after Release")
	}
	if a.Status() != "" {
		t.Errorf("Status() = %q after Release; want empty", a.Status())
	}
}

func TestArbiterReleaseByNonHolderIsNoop(t *testing.T) {
	a := NewArbiter(events.NewBus())
	a.Request("s1")

	a.Release("s2") // not the holder
	if !a.HasControl("s1") {
		t.Error("Release by non-holder revoked the real holder's lease")
	}
}

func TestArbiterForceReleaseUnblocksNextRequester(t *testing.T) {
	a := NewArbiter(events.NewBus())
	a.Request("s1")

	a.ForceRelease("s1")
	if err := a.Request("s2"); err != nil {
		t.Fatalf("Request(s2) after ForceRelease: %v", err)
	}
}

func TestArbiterPublishesControlChanged(t *testing.T) {
	bus := events.NewBus()
	a := NewArbiter(bus)

	received := make(chan ControlChanged, 4)
	bus.Subscribe(EventControlChanged, nil, func(event events.Event) {
		if cc, ok := event.GetData().(ControlChanged); ok {
			received <- cc
		}
	})

	a.Request("s1")
	a.Release("s1")

	var holders []string
	timeout := time.After(200 * time.Millisecond)
	for len(holders) < 2 {
		select {
		case cc := <-received:
			holders = append(holders, cc.Holder)
		case <-timeout:
			t.Fatalf("only received %d ControlChanged events; want 2", len(holders))
		}
	}

	if holders[0] != "s1" || holders[1] != "" {
		t.Errorf("holders = %v; want [s1 \"\"]", holders)
	}
}

func TestArbiterSweepKeepsFreshLease(t *testing.T) {
	// Sweep compares against config.ControlIdleTimeout, which is minutes
	// long in production; exercise the non-idle path directly instead of
	// waiting it out.
	a := NewArbiter(events.NewBus())
	a.Request("s1")

	a.Sweep()
	if !a.HasControl("s1") {
		t.Error("Sweep revoked a freshly-acquired lease")
	}
}
