// Package hub implements the client hub (component E): the WebSocket
// endpoint clients connect to, session bookkeeping, the response
// fan-out from the robot link to every connected client, and dispatch of
// the client protocol's tagged JSON request union to storage, the
// executor, the control-lock arbiter, and the robot link.
//
// Grounded on the teacher's http_server package (chi router, gorilla
// websocket upgrade) and the reference implementation's handle_connection
// (send/recv task pair per connection, the 500ms pointer-identity
// re-subscription poll). Session registry narrowed from
// shared/robot_manager's dual-map registry to a single map keyed by
// session id.
package hub

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shaply/rmibridge/internal/control"
	"github.com/shaply/rmibridge/internal/events"
	"github.com/shaply/rmibridge/internal/executor"
	"github.com/shaply/rmibridge/internal/link"
	"github.com/shaply/rmibridge/internal/logging"
	"github.com/shaply/rmibridge/internal/protocol"
	"github.com/shaply/rmibridge/internal/safe"
	"github.com/shaply/rmibridge/internal/storage"
)

// Hub owns the session registry, the current robot link handle, and the
// shared subsystems every session's handlers dispatch into.
type Hub struct {
	sessions *safe.Map[string, *Session]

	linkPtr atomic.Pointer[link.Link]

	arbiter *control.Arbiter
	store   storage.Store
	bus     events.Bus

	exec        *executor.Executor
	active      *executor.ActiveConfig
	runCancel   atomic.Pointer[context.CancelFunc]
	runProgram  atomic.Pointer[executor.Program]

	defaultHost string
	defaultPort string

	router *chi.Mux
	srv    *http.Server
}

// New constructs a Hub wired to the given collaborators. SetLink must be
// called once a robot link is established; until then, binary frames and
// any request that needs the link are rejected with Disconnected.
// defaultHost/defaultPort seed LinkConnect when a request doesn't name an
// explicit host or saved connection.
func New(store storage.Store, arbiter *control.Arbiter, bus events.Bus, defaultHost, defaultPort string) *Hub {
	h := &Hub{
		sessions:    safe.NewMap[string, *Session](),
		arbiter:     arbiter,
		store:       store,
		bus:         bus,
		exec:        executor.New(),
		active:      executor.NewActiveConfig(defaultConfiguration(), 50),
		defaultHost: defaultHost,
		defaultPort: defaultPort,
	}
	h.router = chi.NewRouter()
	h.router.Get("/healthz", h.handleHealthz)
	h.router.Get("/robot/status", h.handleRobotStatus)
	h.router.Get("/ws", h.handleWS)
	h.bridgeEvents()
	return h
}

// SetLink installs the current robot link handle. Called by cmd/rmibridge
// on initial connect and by the LinkConnect/LinkDisconnect handlers; the
// fan-out goroutine
// detects the change by pointer identity within HubResubscribeInterval.
func (h *Hub) SetLink(l *link.Link) {
	h.linkPtr.Store(l)
}

func (h *Hub) currentLink() *link.Link {
	return h.linkPtr.Load()
}

// Start serves the hub's router on addr until ctx is canceled, and also
// starts the response fan-out goroutine.
func (h *Hub) Start(ctx context.Context, addr string) error {
	h.srv = &http.Server{Addr: addr, Handler: h.router}

	go h.runFanout(ctx)

	serveErr := make(chan error, 1)
	go func() {
		logging.DebugPrint("hub listening on %s", addr)
		if err := h.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("hub server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return h.srv.Shutdown(shutdownCtx)
	}
}

func (h *Hub) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Hub) handleRobotStatus(w http.ResponseWriter, r *http.Request) {
	l := h.currentLink()
	status := "disconnected"
	inFlight := int32(0)
	if l != nil && l.Connected() {
		status = "connected"
		inFlight = l.InFlight()
	}
	fmt.Fprintf(w, `{"status":"%s","in_flight":%d,"control_holder":"%s","sessions":%d}`,
		status, inFlight, h.arbiter.Status(), h.sessions.Len())
}

func newSessionID() string { return uuid.NewString() }

func reqCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// broadcastAll sends an unsolicited response to every connected session,
// used for execution progress, control transitions, and robot-originated
// state changes.
func (h *Hub) broadcastAll(resp Response) {
	for _, s := range h.sessions.Values() {
		s.sendText(resp)
	}
}

func defaultConfiguration() protocol.Configuration {
	return protocol.Configuration{UFrame: 1, UTool: 1, Front: true, Up: true, Left: true}
}
