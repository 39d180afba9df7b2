// Command rmibridge is the entry point for the RMI bridge server.
//
// It wires together the coordination kernel (internal/link,
// internal/control, internal/executor), the storage layer
// (internal/storage), the client-facing hub (internal/hub), and the
// debug console (internal/console), then waits for a shutdown signal.
//
// Configuration is loaded from the environment, optionally seeded by a
// .env file in the working directory:
//   - DEBUG: enable verbose logging (see internal/logging)
//   - ROBOT_ADDR, ROBOT_PORT: the RMI controller's control-channel address
//   - WEBSOCKET_PORT: the client-facing WebSocket port
//   - CONSOLE_PORT: the debug console's TCP port
//   - MONGODB_URI, MONGODB_DATABASE: storage backend
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/shaply/rmibridge/internal/config"
	"github.com/shaply/rmibridge/internal/console"
	"github.com/shaply/rmibridge/internal/control"
	"github.com/shaply/rmibridge/internal/events"
	"github.com/shaply/rmibridge/internal/hub"
	"github.com/shaply/rmibridge/internal/link"
	"github.com/shaply/rmibridge/internal/logging"
	"github.com/shaply/rmibridge/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logging.DebugPrint("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.DebugError(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Settings) error {
	bus := events.NewBus()

	store, err := storage.Dial(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage dial: %w", err)
	}
	defer store.Close(context.Background())

	arbiter := control.NewArbiter(bus)
	arbiter.StartSweeper(ctx)

	h := hub.New(store, arbiter, bus, cfg.RobotAddr, cfg.RobotPort)

	// Connect to the robot controller eagerly using the configured
	// default address; clients may still reconnect or point at a
	// different saved connection later via LinkConnect. A failed dial
	// here isn't fatal: the hub serves clients either way, and they'll
	// see Disconnected on anything that needs the link until one of
	// them connects it.
	if l, err := link.Connect(ctx, cfg.RobotAddr, cfg.RobotPort, bus); err != nil {
		logging.DebugPrint("initial robot connection failed, will connect lazily: %v", err)
	} else {
		h.SetLink(l)
		l.StartTelemetryPoll(ctx, config.TelemetryPollInterval)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return h.Start(gctx, ":"+cfg.WebsocketPort)
	})

	g.Go(func() error {
		return console.Start(gctx, ":"+cfg.ConsolePort, h, arbiter)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}

	logging.DebugPrint("rmibridge shut down gracefully")
	return nil
}
