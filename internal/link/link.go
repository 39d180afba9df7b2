// Package link owns the one TCP session to the robot controller: the
// establishment handshake, the priority-queued sender loop, the
// demultiplexing reader loop, and the broadcast handles other components
// subscribe to. This is component B of the coordination kernel.
package link

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shaply/rmibridge/internal/config"
	"github.com/shaply/rmibridge/internal/errs"
	"github.com/shaply/rmibridge/internal/events"
	"github.com/shaply/rmibridge/internal/logging"
	"github.com/shaply/rmibridge/internal/protocol"
)

// SentInfo is published once per Instruction actually written to the
// wire, carrying the caller's local request id alongside the sequence id
// the sender loop just stamped onto it.
type SentInfo struct {
	RequestID  uint64
	SequenceID uint32
}

// CompletedInfo is published once per InstructionResponse read back from
// the robot.
type CompletedInfo struct {
	SequenceID uint32
	ErrorID    uint32
}

// EventRobotDisconnected is the events.Bus event type published when the
// link transitions to disconnected, so internal/hub can notify every
// session without importing internal/link's guts.
const EventRobotDisconnected = "link.disconnected"

// EventProtocolError is published whenever the reader loop receives a
// frame it cannot parse. The link stays up; the raw bytes are handed to
// internal/hub so every session can be told what arrived.
const EventProtocolError = "link.protocol_error"

// ProtocolError is the payload of EventProtocolError.
type ProtocolError struct {
	Raw string
}

type submissionEntry struct {
	requestID uint64
	priority  protocol.Priority
	outbound  protocol.Outbound
	command   *protocol.DriverCommand
}

// Link is the opaque handle other components hold: its internals
// (socket, queue, sequence counter) are never shared directly, only the
// handle and its broadcast subscriptions, per the Design Notes guidance
// against cyclic clones of raw driver state.
type Link struct {
	conn net.Conn

	submissionCh chan submissionEntry
	completionCh chan CompletedInfo

	state    atomic.Int32 // protocol.DriverState
	inFlight atomic.Int32

	seqMu      sync.Mutex
	seqCounter uint32

	connected atomic.Bool
	requestID atomic.Uint64

	sentBroadcast      *Broadcaster[SentInfo]
	completedBroadcast *Broadcaster[CompletedInfo]
	responseBroadcast  *Broadcaster[protocol.Response]

	bus events.Bus

	cancel context.CancelFunc
	done   chan struct{}
}

// Connect runs the full establishment protocol against host:controlPort
// and returns a running Link on success: dial with retries, FrcConnect
// handshake, redial on the returned motion port, then spawn the sender
// and reader loops.
func Connect(ctx context.Context, host, controlPort string, bus events.Bus) (*Link, error) {
	controlConn, err := dialWithRetries(host, controlPort)
	if err != nil {
		return nil, &errs.HandshakeError{Stage: errs.StageDialControl, Cause: err}
	}

	payload, err := protocol.EncodeEnvelope(protocol.FrcConnect{})
	if err != nil {
		controlConn.Close()
		return nil, &errs.HandshakeError{Stage: errs.StageSerialize, Cause: err}
	}
	if _, err := controlConn.Write(protocol.EncodeFrame(payload)); err != nil {
		controlConn.Close()
		return nil, &errs.HandshakeError{Stage: errs.StageSend, Cause: err}
	}

	line, err := readOneFrame(controlConn)
	if err != nil {
		controlConn.Close()
		return nil, &errs.HandshakeError{Stage: errs.StageReceive, Cause: err}
	}
	controlConn.Close()

	resp, err := protocol.ParseResponse(line)
	if err != nil {
		return nil, &errs.HandshakeError{Stage: errs.StageParse, Cause: err}
	}
	if resp.Communication == nil || resp.Communication.Variant != "FrcConnect" || resp.Communication.PortNumber == 0 {
		return nil, &errs.HandshakeError{Stage: errs.StageUnexpectedReply, Cause: fmt.Errorf("missing motion port in FrcConnect reply")}
	}

	motionPort := fmt.Sprintf("%d", resp.Communication.PortNumber)
	motionConn, err := dialWithRetries(host, motionPort)
	if err != nil {
		return nil, &errs.HandshakeError{Stage: errs.StageDialMotion, Cause: err}
	}

	linkCtx, cancel := context.WithCancel(ctx)
	l := &Link{
		conn:               motionConn,
		submissionCh:       make(chan submissionEntry, config.SubmissionQueueCapacity),
		completionCh:       make(chan CompletedInfo, config.SubmissionQueueCapacity),
		sentBroadcast:      NewBroadcaster[SentInfo](config.BroadcastCapacity),
		completedBroadcast: NewBroadcaster[CompletedInfo](config.BroadcastCapacity),
		responseBroadcast:  NewBroadcaster[protocol.Response](config.BroadcastCapacity),
		bus:                bus,
		cancel:             cancel,
		done:               make(chan struct{}),
	}
	l.seqCounter = 0 // sequence ids restart at 1 for every new link
	l.connected.Store(true)

	go l.senderLoop(linkCtx)
	go l.readerLoop(linkCtx)

	return l, nil
}

func dialWithRetries(host, port string) (net.Conn, error) {
	addr := net.JoinHostPort(host, port)
	var lastErr error
	for attempt := 0; attempt < config.DialRetries; attempt++ {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		logging.DebugPrint("dial %s failed (attempt %d/%d): %v", addr, attempt+1, config.DialRetries, err)
		time.Sleep(config.DialBackoff)
	}
	return nil, lastErr
}

// readOneFrame reads until a single "\n"-terminated frame is available.
// Used only during the handshake, before the reader loop exists.
func readOneFrame(conn net.Conn) (string, error) {
	scanner := protocol.NewFrameScanner()
	buf := make([]byte, 1024)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return "", err
		}
		frames, _ := scanner.Feed(buf[:n])
		if len(frames) > 0 {
			return frames[0], nil
		}
	}
}

// Submit is the non-blocking submit API: it places packet on the bounded
// submission channel and returns a fresh request id the caller can
// correlate with a later SentInfo. Fails with errs.ErrQueueFull only if
// the channel is saturated.
func (l *Link) Submit(packet protocol.Outbound, priority protocol.Priority) (uint64, error) {
	id := l.requestID.Add(1)
	entry := submissionEntry{requestID: id, priority: priority, outbound: packet}
	select {
	case l.submissionCh <- entry:
		return id, nil
	default:
		return 0, errs.ErrQueueFull
	}
}

// SubmitCommand queues a DriverCommand (Pause/Unpause). It is never
// written to the wire; the sender loop intercepts it and updates state.
func (l *Link) SubmitCommand(cmd protocol.DriverCommand) error {
	entry := submissionEntry{command: &cmd}
	select {
	case l.submissionCh <- entry:
		return nil
	default:
		return errs.ErrQueueFull
	}
}

func (l *Link) Connected() bool { return l.connected.Load() }

// Disconnect marks the link disconnected, cancels the link's context and
// closes the socket, tearing down both loops: the sender loop stops at its
// next tick and the reader loop's blocking Read returns an error. The
// submission channel is left open.
func (l *Link) Disconnect() {
	l.connected.Store(false)
	l.cancel()
	l.conn.Close()
}

func (l *Link) setConnected(v bool) {
	wasConnected := l.connected.Swap(v)
	if wasConnected && !v {
		if l.bus != nil {
			l.bus.PublishData(EventRobotDisconnected, struct{}{})
		}
		// Close every broadcast so subscribers (internal/executor in
		// particular) see a closed channel rather than silence, and can
		// tell "the link is gone" apart from "nothing has happened yet".
		l.sentBroadcast.CloseAll()
		l.completedBroadcast.CloseAll()
		l.responseBroadcast.CloseAll()
	}
}

func (l *Link) getState() protocol.DriverState {
	return protocol.DriverState(l.state.Load())
}

func (l *Link) setState(s protocol.DriverState) {
	l.state.Store(int32(s))
}

// SubscribeSent, SubscribeCompleted, and SubscribeResponses expose the
// link's three broadcast channels (component B's "observable side
// effects"). Callers must Unsubscribe with the returned id when done.
func (l *Link) SubscribeSent() (string, <-chan Message[SentInfo]) {
	return l.sentBroadcast.Subscribe()
}

func (l *Link) UnsubscribeSent(id string) { l.sentBroadcast.Unsubscribe(id) }

func (l *Link) SubscribeCompleted() (string, <-chan Message[CompletedInfo]) {
	return l.completedBroadcast.Subscribe()
}

func (l *Link) UnsubscribeCompleted(id string) { l.completedBroadcast.Unsubscribe(id) }

func (l *Link) SubscribeResponses() (string, <-chan Message[protocol.Response]) {
	return l.responseBroadcast.Subscribe()
}

func (l *Link) UnsubscribeResponses(id string) { l.responseBroadcast.Unsubscribe(id) }

// InFlight reports the current in-flight count, for diagnostics and
// tests asserting invariant I3.
func (l *Link) InFlight() int32 { return l.inFlight.Load() }

// ResponseSubscriberCount reports how many consumers are currently
// subscribed to the response broadcast, for internal/console.
func (l *Link) ResponseSubscriberCount() int { return l.responseBroadcast.SubscriberCount() }
