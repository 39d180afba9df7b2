package console

import "fmt"

func init() {
	RegisterCommand("status", "Show link and control-lease status", "status", statusCommand)
	RegisterCommand("sessions", "List connected session ids", "sessions", sessionsCommand)
	RegisterCommand("kick", "Force-disconnect a session", "kick <session_id>", kickCommand)
	RegisterCommand("help", "Show available commands", "help [command]", helpCommand)
	RegisterCommand("exit", "Close this console session", "exit", exitCommand)
	RegisterCommand("quit", "Close this console session", "quit", quitCommand)
}

func statusCommand(ctx *CommandContext, args []string) error {
	connected, inFlight, responseSubs := ctx.Hub.LinkStatus()
	holder := ctx.Hub.ControlHolder()
	if holder == "" {
		holder = "(free)"
	}
	ctx.Conn.Write([]byte(fmt.Sprintf("link: connected=%v in_flight=%d response_subscribers=%d\n", connected, inFlight, responseSubs)))
	ctx.Conn.Write([]byte(fmt.Sprintf("control: %s\n", holder)))
	ctx.Conn.Write([]byte(fmt.Sprintf("sessions: %d\n", len(ctx.Hub.SessionIDs()))))
	return nil
}

func sessionsCommand(ctx *CommandContext, args []string) error {
	ids := ctx.Hub.SessionIDs()
	if len(ids) == 0 {
		ctx.Conn.Write([]byte("no connected sessions\n"))
		return nil
	}
	for _, id := range ids {
		ctx.Conn.Write([]byte(fmt.Sprintf("  %s\n", id)))
	}
	return nil
}

func kickCommand(ctx *CommandContext, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: kick <session_id>")
	}
	if !ctx.Hub.ForceDisconnect(args[0]) {
		return fmt.Errorf("no such session: %s", args[0])
	}
	ctx.Conn.Write([]byte(fmt.Sprintf("disconnected %s\n", args[0])))
	return nil
}

func helpCommand(ctx *CommandContext, args []string) error {
	if len(args) == 0 {
		ctx.Conn.Write([]byte("Available commands:\n"))
		for _, cmd := range DefaultRegistry.ListCommands() {
			ctx.Conn.Write([]byte(fmt.Sprintf("  %-10s - %s\n", cmd.Name, cmd.Description)))
		}
		ctx.Conn.Write([]byte("\nUse 'help <command>' for detailed usage.\n"))
		return nil
	}
	cmd, ok := DefaultRegistry.GetCommand(args[0])
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	ctx.Conn.Write([]byte(fmt.Sprintf("Command: %s\n", cmd.Name)))
	ctx.Conn.Write([]byte(fmt.Sprintf("Description: %s\n", cmd.Description)))
	ctx.Conn.Write([]byte(fmt.Sprintf("Usage: %s\n", cmd.Usage)))
	return nil
}

// exitCommand's error is a sentinel the console loop checks for, not a
// real failure, matching terminal/robot_commands.go's exitCommand.
func exitCommand(ctx *CommandContext, args []string) error {
	ctx.Conn.Write([]byte("Goodbye!\n"))
	return fmt.Errorf("exit")
}

func quitCommand(ctx *CommandContext, args []string) error {
	return exitCommand(ctx, args)
}
