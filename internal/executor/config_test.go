package executor

import (
	"testing"

	"github.com/shaply/rmibridge/internal/protocol"
)

func TestActiveConfigGetSet(t *testing.T) {
	seed := protocol.Configuration{UFrame: 1, UTool: 1}
	a := NewActiveConfig(seed, 10)

	if got := a.Get(); got != seed {
		t.Errorf("Get() = %+v; want seed %+v", got, seed)
	}

	next := protocol.Configuration{UFrame: 2, UTool: 3}
	a.Set(next)
	if got := a.Get(); got != next {
		t.Errorf("Get() after Set = %+v; want %+v", got, next)
	}
	if a.ChangeCount() != 1 {
		t.Errorf("ChangeCount() = %d; want 1", a.ChangeCount())
	}
}

func TestActiveConfigLogIsBounded(t *testing.T) {
	a := NewActiveConfig(protocol.Configuration{}, 3)

	for i := 1; i <= 5; i++ {
		a.Set(protocol.Configuration{UFrame: i})
	}

	log := a.Log()
	if len(log) != 3 {
		t.Fatalf("len(Log()) = %d; want 3", len(log))
	}
	if log[len(log)-1].Config.UFrame != 5 {
		t.Errorf("last log entry UFrame = %d; want 5 (most recent)", log[len(log)-1].Config.UFrame)
	}
	if a.ChangeCount() != 5 {
		t.Errorf("ChangeCount() = %d; want 5 even though the log was trimmed", a.ChangeCount())
	}
}

func TestNewActiveConfigDefaultsMaxLog(t *testing.T) {
	a := NewActiveConfig(protocol.Configuration{}, 0)
	for i := 0; i < 60; i++ {
		a.Set(protocol.Configuration{UFrame: i})
	}
	if len(a.Log()) != 50 {
		t.Errorf("len(Log()) = %d; want default cap of 50", len(a.Log()))
	}
}
