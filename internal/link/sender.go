package link

import (
	"context"
	"time"

	"github.com/shaply/rmibridge/internal/config"
	"github.com/shaply/rmibridge/internal/logging"
	"github.com/shaply/rmibridge/internal/protocol"
)

// senderLoop runs on a fixed 8ms cadence: drain the submission channel
// into a priority-ordered deque, drain completions to release in-flight
// slots, then send as many queued packets as the in-flight window and
// driver state allow. See spec.md §4.B.
func (l *Link) senderLoop(ctx context.Context) {
	defer close(l.done)

	var queue []submissionEntry
	submissionClosed := false

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		tickStart := time.Now()

		queue, submissionClosed = l.drainSubmissions(queue)
		l.drainCompletions()

		if submissionClosed && len(queue) == 0 {
			return
		}

		queue = l.sendReady(queue)

		elapsed := time.Since(tickStart)
		if elapsed > config.SenderTickInterval {
			logging.DebugPrint("sender tick overrun: %v", elapsed)
		} else {
			time.Sleep(config.SenderTickInterval - elapsed)
		}
	}
}

func (l *Link) drainSubmissions(queue []submissionEntry) (out []submissionEntry, closed bool) {
	out = queue
	for {
		select {
		case entry, ok := <-l.submissionCh:
			if !ok {
				return out, true
			}
			if entry.command != nil {
				switch *entry.command {
				case protocol.CommandPause:
					l.setState(protocol.StatePaused)
				case protocol.CommandUnpause:
					l.setState(protocol.StateRunning)
				}
				continue
			}
			switch entry.priority {
			case protocol.PriorityLow, protocol.PriorityStandard:
				out = append(out, entry)
			case protocol.PriorityHigh, protocol.PriorityImmediate:
				out = append([]submissionEntry{entry}, out...)
			case protocol.PriorityTermination:
				out = []submissionEntry{entry}
			}
		default:
			return out, false
		}
	}
}

func (l *Link) drainCompletions() {
	for {
		select {
		case info := <-l.completionCh:
			if l.inFlight.Load() > 0 {
				l.inFlight.Add(-1)
			}
			if info.ErrorID != 0 {
				logging.DebugPrint("instruction %d completed with error_id=%d", info.SequenceID, info.ErrorID)
			}
		default:
			return
		}
	}
}

// sendReady pops and sends packets while in_flight < MaxInFlight, the
// driver is Running, and the queue is non-empty. Returns the remaining
// queue.
func (l *Link) sendReady(queue []submissionEntry) []submissionEntry {
	for len(queue) > 0 && l.inFlight.Load() < config.MaxInFlight && l.getState() == protocol.StateRunning {
		entry := queue[0]
		queue = queue[1:]

		outbound := entry.outbound

		if instr, ok := outbound.(protocol.Instruction); ok {
			l.seqMu.Lock()
			l.seqCounter++
			id := l.seqCounter
			l.seqMu.Unlock()
			instr.SetSequenceID(id)
		}

		payload, err := protocol.EncodeEnvelope(outbound)
		if err != nil {
			logging.DebugError(err)
			continue
		}
		frame := protocol.EncodeFrame(payload)

		if err := l.writeWithTimeout(frame, config.WriteTimeout); err != nil {
			logging.DebugError(err)
			break
		}

		if _, isDisconnect := outbound.(protocol.FrcDisconnect); isDisconnect {
			queue = nil
			break
		}

		if instr, ok := outbound.(protocol.Instruction); ok {
			l.inFlight.Add(1)
			l.sentBroadcast.Publish(SentInfo{RequestID: entry.requestID, SequenceID: instr.GetSequenceID()})
		}
	}
	return queue
}

func (l *Link) writeWithTimeout(frame []byte, timeout time.Duration) error {
	if err := l.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	_, err := l.conn.Write(frame)
	return err
}
