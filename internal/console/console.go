package console

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/shaply/rmibridge/internal/control"
	"github.com/shaply/rmibridge/internal/hub"
	"github.com/shaply/rmibridge/internal/logging"
)

// Start listens on addr and serves the debug console until ctx is
// canceled. Each connection gets its own command loop; a slow or stuck
// console session never blocks another one or the bridge itself.
func Start(ctx context.Context, addr string, h *hub.Hub, arbiter *control.Arbiter) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("console listen: %w", err)
	}
	defer listener.Close()

	logging.DebugPrint("console listening on %s", addr)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					logging.DebugPrint("console accept error: %v", err)
					continue
				}
			}
			logging.DebugPrint("console connection from %s", conn.RemoteAddr())
			go handleConnection(ctx, conn, h, arbiter)
		}
	}()

	<-ctx.Done()
	logging.DebugPrint("shutting down console server")
	return listener.Close()
}

func handleConnection(ctx context.Context, conn net.Conn, h *hub.Hub, arbiter *control.Arbiter) {
	defer conn.Close()

	cmdCtx := &CommandContext{Conn: conn, Hub: h, Arbiter: arbiter}

	conn.Write([]byte("=== rmibridge console ===\n"))
	conn.Write([]byte("Type 'help' for available commands.\n"))
	conn.Write([]byte("> "))

	scanner := bufio.NewScanner(conn)

	for {
		select {
		case <-ctx.Done():
			conn.Write([]byte("\nconsole session ended.\n"))
			return
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				logging.DebugPrint("console read error: %v", err)
			}
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			conn.Write([]byte("> "))
			continue
		}

		fields := strings.Fields(line)
		name, args := fields[0], fields[1:]

		if err := DefaultRegistry.ExecuteCommand(cmdCtx, name, args); err != nil {
			if err.Error() == "exit" {
				return
			}
			conn.Write([]byte(fmt.Sprintf("error: %v\n", err)))
		}
		conn.Write([]byte("> "))
	}
}
