package executor

import (
	"context"
	"fmt"

	"github.com/shaply/rmibridge/internal/link"
	"github.com/shaply/rmibridge/internal/logging"
	"github.com/shaply/rmibridge/internal/protocol"
)

// Run submits program's instructions to lk one at a time and streams
// progress on the returned channel, which is closed when the run ends
// (success, failure, or loss of the link). Run subscribes to lk's sent
// and completed broadcasts before submitting anything, so no
// notification can be missed between submit and subscribe.
func (e *Executor) Run(ctx context.Context, lk *link.Link, program *Program) <-chan Event {
	out := make(chan Event, 16)
	go e.run(ctx, lk, program, out)
	return out
}

func (e *Executor) run(ctx context.Context, lk *link.Link, program *Program, out chan<- Event) {
	defer close(out)

	e.mu.Lock()
	e.reset()
	e.mu.Unlock()

	sentID, sentCh := lk.SubscribeSent()
	defer lk.UnsubscribeSent(sentID)
	completedID, completedCh := lk.SubscribeCompleted()
	defer lk.UnsubscribeCompleted(completedID)

	total := len(program.Instructions)
	out <- ExecutionStarted{ProgramID: program.ID, TotalLines: total}
	if total == 0 {
		out <- ProgramComplete{Success: true, Message: "program has no instructions"}
		return
	}
	out <- InstructionSent{CurrentLine: 1, TotalLines: total}

	for i, instr := range program.Instructions {
		line := i + 1
		reqID, err := lk.Submit(instr, protocol.PriorityStandard)
		if err != nil {
			out <- ProgramComplete{Success: false, Message: fmt.Sprintf("submit failed at line %d: %v", line, err)}
			return
		}
		e.mu.Lock()
		e.requestToLine[reqID] = line
		e.mu.Unlock()
	}

	for {
		select {
		case <-ctx.Done():
			out <- ProgramComplete{Success: false, Message: "stopped"}
			return

		case msg, ok := <-sentCh:
			if !ok {
				e.emitPartialIfAny(out, total)
				return
			}
			if msg.Lagged {
				logging.DebugPrint("executor: sent-notification broadcast lagged, link state may desync")
				continue
			}
			e.mu.Lock()
			line, known := e.requestToLine[msg.Value.RequestID]
			if known {
				e.sequenceToLine[msg.Value.SequenceID] = line
			}
			events, terminal := e.drainPending(total)
			e.mu.Unlock()
			for _, ev := range events {
				out <- ev
			}
			if terminal {
				return
			}

		case msg, ok := <-completedCh:
			if !ok {
				e.emitPartialIfAny(out, total)
				return
			}
			if msg.Lagged {
				logging.DebugPrint("executor: completion broadcast lagged, link state may desync")
				continue
			}
			e.mu.Lock()
			line, known := e.sequenceToLine[msg.Value.SequenceID]
			var events []Event
			terminal := false
			if known {
				events, terminal = e.completeLine(line, msg.Value.ErrorID, total)
				if !terminal {
					more, t2 := e.drainPending(total)
					events = append(events, more...)
					terminal = t2
				}
			} else {
				e.pending = append(e.pending, pendingCompletion{SequenceID: msg.Value.SequenceID, ErrorID: msg.Value.ErrorID})
			}
			e.mu.Unlock()
			for _, ev := range events {
				out <- ev
			}
			if terminal {
				return
			}
		}
	}
}

// emitPartialIfAny reports a best-effort completion when a subscription
// channel closes mid-run (the link tore down before every line finished),
// matching the original's partial-success-on-channel-close behavior: a
// high-water mark above zero still counts as a completed partial run.
func (e *Executor) emitPartialIfAny(out chan<- Event, total int) {
	e.mu.Lock()
	highWater := e.highWater
	completed := e.completedCount
	e.mu.Unlock()
	if highWater > 0 {
		out <- ProgramComplete{
			Success: true,
			Message: fmt.Sprintf("Completed (tracked %d of %d instructions)", highWater, total),
		}
		return
	}
	out <- ProgramComplete{
		Success: false,
		Message: fmt.Sprintf("link lost after %d/%d instructions completed", completed, total),
	}
}
