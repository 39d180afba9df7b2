package link

import (
	"context"
	"time"

	"github.com/shaply/rmibridge/internal/config"
	"github.com/shaply/rmibridge/internal/errs"
	"github.com/shaply/rmibridge/internal/logging"
	"github.com/shaply/rmibridge/internal/protocol"
)

// readerLoop runs on a config.ReaderTickInterval cadence and performs an
// indefinite blocking read per iteration — no timeout, by design, so an
// idle connection is never mistaken for a dead one. On EOF or error it
// marks the link disconnected and returns.
func (l *Link) readerLoop(ctx context.Context) {
	scanner := protocol.NewFrameScanner()
	buf := make([]byte, 4096)
	var nextReadAt time.Time

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if wait := time.Until(nextReadAt); wait > 0 {
			time.Sleep(wait)
		}
		nextReadAt = time.Now().Add(config.ReaderTickInterval)

		n, err := l.conn.Read(buf)
		if err != nil {
			logging.DebugError(errs.ErrFailedToReceive)
			l.setConnected(false)
			return
		}
		if n == 0 {
			continue
		}

		frames, dropped := scanner.Feed(buf[:n])
		if dropped > 0 {
			logging.DebugPrint("dropped %d non-UTF-8 frame(s)", dropped)
		}

		for _, frame := range frames {
			l.processLine(frame)
		}
	}
}

func (l *Link) processLine(frame string) {
	resp, err := protocol.ParseResponse(frame)
	if err != nil {
		// Non-fatal: surfaced to every session as RobotError, connection
		// stays up.
		logging.DebugError(&errs.ParseError{Raw: frame, Cause: err})
		if l.bus != nil {
			l.bus.PublishData(EventProtocolError, ProtocolError{Raw: frame})
		}
		return
	}

	l.responseBroadcast.Publish(*resp)

	switch {
	case resp.Communication != nil && resp.Communication.Variant == "FrcDisconnect":
		l.setConnected(false)
	case resp.Instruction != nil:
		ci := CompletedInfo{SequenceID: resp.Instruction.SequenceID, ErrorID: resp.Instruction.ErrorID}
		select {
		case l.completionCh <- ci:
		default:
			logging.DebugPrint("completion channel saturated, dropping sequence %d", ci.SequenceID)
		}
		l.completedBroadcast.Publish(ci)
	case resp.Command != nil:
		// Already published on the general response broadcast above;
		// individual Command replies (e.g. FrcSetOverRide) are otherwise
		// only logged.
		logging.DebugPrint("command response: %s", resp.Command.Variant)
	}
}
