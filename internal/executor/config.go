package executor

import (
	"sync"
	"time"

	"github.com/shaply/rmibridge/internal/protocol"
)

// ConfigChange records one posture change for ActiveConfig's log.
type ConfigChange struct {
	At     time.Time
	Config protocol.Configuration
}

// ActiveConfig tracks the arm posture instructions are stamped with
// between program runs, along with a change counter and a bounded
// in-memory log of recent postures (see Log). The hub does not expose the
// log to clients.
type ActiveConfig struct {
	mu      sync.Mutex
	current protocol.Configuration
	count   int
	log     []ConfigChange
	maxLog  int
}

// NewActiveConfig returns an ActiveConfig seeded with cfg and a change
// log capped at maxLog entries (oldest dropped first).
func NewActiveConfig(cfg protocol.Configuration, maxLog int) *ActiveConfig {
	if maxLog <= 0 {
		maxLog = 50
	}
	return &ActiveConfig{current: cfg, maxLog: maxLog}
}

// Get returns the current posture.
func (a *ActiveConfig) Get() protocol.Configuration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Set replaces the current posture and appends it to the change log.
func (a *ActiveConfig) Set(cfg protocol.Configuration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = cfg
	a.count++
	a.log = append(a.log, ConfigChange{At: time.Now(), Config: cfg})
	if len(a.log) > a.maxLog {
		a.log = a.log[len(a.log)-a.maxLog:]
	}
}

// ChangeCount reports how many times Set has been called.
func (a *ActiveConfig) ChangeCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// Log returns a snapshot of the change history, oldest first.
func (a *ActiveConfig) Log() []ConfigChange {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ConfigChange, len(a.log))
	copy(out, a.log)
	return out
}
