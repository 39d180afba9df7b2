// Package control implements the control-lock arbiter (component C): a
// single-writer lease over the robot link, with idle timeout, forcible
// revocation on disconnect, and broadcast notification of every state
// change.
package control

import (
	"context"
	"sync"
	"time"

	"github.com/shaply/rmibridge/internal/config"
	"github.com/shaply/rmibridge/internal/errs"
	"github.com/shaply/rmibridge/internal/events"
)

// EventControlChanged fires on every lease state transition, carrying a
// ControlChanged payload. EventControlLost fires when Sweep revokes an
// idle lease, carrying a ControlLost payload addressed to that former
// holder; ForceRelease on disconnect does not publish it.
const (
	EventControlChanged = "control.changed"
	EventControlLost    = "control.lost"
)

// ControlChanged is broadcast to every session on any lease transition.
type ControlChanged struct {
	Holder string // empty when the lease is free
}

// ControlLost is delivered to the specific session whose lease was
// revoked.
type ControlLost struct {
	Holder string
	Reason string
}

type lease struct {
	holder         string
	acquiredAt     time.Time
	lastActivityAt time.Time
}

// Arbiter tracks at most one lease holder at a time. All operations hold
// a single mutex for the duration of their read-modify-write; contention
// is negligible at the request rates this system sees.
type Arbiter struct {
	mu  sync.Mutex
	cur *lease

	bus events.Bus
}

// NewArbiter constructs an arbiter that publishes its transitions on bus.
func NewArbiter(bus events.Bus) *Arbiter {
	return &Arbiter{bus: bus}
}

// Request acquires the lease for session, or re-confirms it if session
// already holds it. Returns errs.ErrControlDenied (as a *errs.DeniedError)
// if another session holds it.
func (a *Arbiter) Request(session string) error {
	a.mu.Lock()
	now := time.Now()
	if a.cur == nil || a.cur.holder == session {
		a.cur = &lease{holder: session, acquiredAt: now, lastActivityAt: now}
		a.mu.Unlock()
		a.notifyChanged(session)
		return nil
	}
	holder := a.cur.holder
	a.mu.Unlock()
	return &errs.DeniedError{Holder: holder, Reason: "another session holds control"}
}

// Release clears the lease if session currently holds it. No-op (and no
// error) otherwise, matching the op table's precondition.
func (a *Arbiter) Release(session string) {
	a.mu.Lock()
	if a.cur == nil || a.cur.holder != session {
		a.mu.Unlock()
		return
	}
	a.cur = nil
	a.mu.Unlock()
	a.notifyChanged("")
}

// Touch resets the idle timer for session, if it currently holds the
// lease.
func (a *Arbiter) Touch(session string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cur != nil && a.cur.holder == session {
		a.cur.lastActivityAt = time.Now()
	}
}

// ForceRelease clears the lease unconditionally if session holds it,
// used on session teardown (I6: disconnect revokes atomically with
// teardown).
func (a *Arbiter) ForceRelease(session string) {
	a.Release(session)
}

// Status returns the current holder, or "" if the lease is free.
func (a *Arbiter) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cur == nil {
		return ""
	}
	return a.cur.holder
}

// HasControl reports whether session currently holds the lease.
func (a *Arbiter) HasControl(session string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cur != nil && a.cur.holder == session
}

// Sweep revokes the lease if it has been idle past config.ControlIdleTimeout,
// notifying the former holder with ControlLost{reason=timeout}.
func (a *Arbiter) Sweep() {
	a.mu.Lock()
	if a.cur == nil || time.Since(a.cur.lastActivityAt) < config.ControlIdleTimeout {
		a.mu.Unlock()
		return
	}
	holder := a.cur.holder
	a.cur = nil
	a.mu.Unlock()

	a.notifyChanged("")
	if a.bus != nil {
		a.bus.PublishData(EventControlLost, ControlLost{Holder: holder, Reason: "timeout"})
	}
}

func (a *Arbiter) notifyChanged(holder string) {
	if a.bus != nil {
		a.bus.PublishData(EventControlChanged, ControlChanged{Holder: holder})
	}
}

// StartSweeper runs Sweep on config.ArbiterSweepInterval until ctx is
// canceled.
func (a *Arbiter) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(config.ArbiterSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.Sweep()
			}
		}
	}()
}
