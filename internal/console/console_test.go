package console

import (
	"bufio"
	"net"
	"testing"

	"github.com/shaply/rmibridge/internal/control"
	"github.com/shaply/rmibridge/internal/events"
	"github.com/shaply/rmibridge/internal/hub"
)

func newTestContext(t *testing.T) (*CommandContext, *bufio.Reader, func()) {
	t.Helper()
	serverConn, clientConn := net.Pipe()

	bus := events.NewBus()
	arbiter := control.NewArbiter(bus)
	h := hub.New(nil, arbiter, bus, "127.0.0.1", "16001")

	ctx := &CommandContext{Conn: serverConn, Hub: h, Arbiter: arbiter}
	reader := bufio.NewReader(clientConn)
	return ctx, reader, func() {
		serverConn.Close()
		clientConn.Close()
	}
}

func TestStatusCommandReportsFreeControlAndNoSessions(t *testing.T) {
	ctx, reader, cleanup := newTestContext(t)
	defer cleanup()

	done := make(chan error, 1)
	go func() { done <- statusCommand(ctx, nil) }()

	line1, _ := reader.ReadString('\n')
	line2, _ := reader.ReadString('\n')
	line3, _ := reader.ReadString('\n')

	if err := <-done; err != nil {
		t.Fatalf("statusCommand: %v", err)
	}
	if line1 == "" || line2 == "" || line3 == "" {
		t.Fatalf("expected three status lines, got %q %q %q", line1, line2, line3)
	}
	if line2 != "control: (free)\n" {
		t.Errorf("line2 = %q; want %q", line2, "control: (free)\n")
	}
	if line3 != "sessions: 0\n" {
		t.Errorf("line3 = %q; want %q", line3, "sessions: 0\n")
	}
}

func TestSessionsCommandReportsNoneWhenEmpty(t *testing.T) {
	ctx, reader, cleanup := newTestContext(t)
	defer cleanup()

	done := make(chan error, 1)
	go func() { done <- sessionsCommand(ctx, nil) }()

	line, _ := reader.ReadString('\n')
	if err := <-done; err != nil {
		t.Fatalf("sessionsCommand: %v", err)
	}
	if line != "no connected sessions\n" {
		t.Errorf("line = %q; want %q", line, "no connected sessions\n")
	}
}

func TestKickCommandRequiresArgument(t *testing.T) {
	ctx, _, cleanup := newTestContext(t)
	defer cleanup()

	if err := kickCommand(ctx, nil); err == nil {
		t.Fatal("expected usage error with no arguments")
	}
}

func TestKickCommandUnknownSessionErrors(t *testing.T) {
	ctx, _, cleanup := newTestContext(t)
	defer cleanup()

	if err := kickCommand(ctx, []string{"no-such-session"}); err == nil {
		t.Fatal("expected error for unknown session id")
	}
}

func TestExitCommandReturnsExitSentinel(t *testing.T) {
	ctx, reader, cleanup := newTestContext(t)
	defer cleanup()

	done := make(chan error, 1)
	go func() { done <- exitCommand(ctx, nil) }()
	reader.ReadString('\n')

	err := <-done
	if err == nil || err.Error() != "exit" {
		t.Errorf("exitCommand error = %v; want sentinel \"exit\"", err)
	}
}

func TestDefaultRegistryHasBridgeCommands(t *testing.T) {
	for _, name := range []string{"status", "sessions", "kick", "help", "exit", "quit"} {
		if _, ok := DefaultRegistry.GetCommand(name); !ok {
			t.Errorf("DefaultRegistry missing command %q", name)
		}
	}
}

func TestExecuteCommandUnknownName(t *testing.T) {
	ctx, _, cleanup := newTestContext(t)
	defer cleanup()

	if err := DefaultRegistry.ExecuteCommand(ctx, "nonexistent", nil); err == nil {
		t.Fatal("expected error for unregistered command")
	}
}
