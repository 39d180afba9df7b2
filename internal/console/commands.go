// Package console implements the debug TCP console (an ambient operator
// surface, not part of the client protocol): a line-oriented command
// shell an operator can telnet into to inspect and nudge the running
// bridge without going through a WebSocket client.
//
// Grounded on the teacher's terminal package: the same registry-of-named-
// commands pattern (terminal/commands.go), the same init()-time
// registration (terminal/init.go), and the same per-connection
// bufio.Scanner command loop (terminal/terminal.go). Narrowed from robot
// fleet commands (list/list_registering/subscribe/publish) to the
// bridge's own state: link status, control lease, and session list.
package console

import (
	"fmt"
	"net"

	"github.com/shaply/rmibridge/internal/control"
	"github.com/shaply/rmibridge/internal/hub"
)

// CommandFunc is one console command's handler.
type CommandFunc func(ctx *CommandContext, args []string) error

// CommandInfo holds metadata about a registered command.
type CommandInfo struct {
	Name        string
	Description string
	Usage       string
	Handler     CommandFunc
}

// CommandContext is passed to every command handler. It carries the
// connection to write replies to and the subsystems a command may
// inspect or act on.
type CommandContext struct {
	Conn    net.Conn
	Hub     *hub.Hub
	Arbiter *control.Arbiter
}

// CommandRegistry holds every registered command, keyed by name.
type CommandRegistry struct {
	commands map[string]*CommandInfo
}

// DefaultRegistry is populated by this package's init() functions.
var DefaultRegistry = &CommandRegistry{commands: make(map[string]*CommandInfo)}

// RegisterCommand adds a command to DefaultRegistry.
func RegisterCommand(name, description, usage string, handler CommandFunc) {
	DefaultRegistry.commands[name] = &CommandInfo{
		Name:        name,
		Description: description,
		Usage:       usage,
		Handler:     handler,
	}
}

// GetCommand looks up a command by name.
func (r *CommandRegistry) GetCommand(name string) (*CommandInfo, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// ListCommands returns every registered command, in no particular order.
func (r *CommandRegistry) ListCommands() []*CommandInfo {
	out := make([]*CommandInfo, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	return out
}

// ExecuteCommand runs the named command, or returns an error if it isn't
// registered.
func (r *CommandRegistry) ExecuteCommand(ctx *CommandContext, name string, args []string) error {
	cmd, ok := r.GetCommand(name)
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}
	return cmd.Handler(ctx, args)
}
