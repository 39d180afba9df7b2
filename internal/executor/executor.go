// Package executor implements the program executor (component D): it
// drives a loaded sequence of instructions through internal/link one
// waypoint at a time, tracks completion against the sequence and request
// ids the link hands back, and reports progress as a stream of events a
// caller (internal/hub) can forward to subscribed clients.
//
// Grounded on the reference implementation's execute_program coordination
// loop: a select over a "sent" notification stream and a "response"
// stream, two id-to-line maps, a buffer for responses that arrive before
// their line is known, and a monotone high-water progress rule.
package executor

import (
	"fmt"
	"sync"

	"github.com/shaply/rmibridge/internal/protocol"
)

// Program is a named, ordered sequence of instructions loaded from
// storage (or built ad hoc by a client) and run start to finish.
type Program struct {
	ID           string
	Name         string
	Instructions []protocol.Instruction
}

// Event is the union of progress notifications Run emits on its output
// channel. Concrete types: ExecutionStarted, InstructionSent,
// InstructionProgress, ProgramComplete.
type Event interface{}

// ExecutionStarted is emitted once, before the first waypoint is
// submitted.
type ExecutionStarted struct {
	ProgramID  string
	TotalLines int
}

// InstructionSent is emitted once for line 1 at start, and again each
// time the high-water mark advances and a next line exists.
type InstructionSent struct {
	CurrentLine int
	TotalLines  int
}

// InstructionProgress is emitted at most once per line, in strictly
// increasing CurrentLine order, as completions push the high-water mark
// forward.
type InstructionProgress struct {
	CurrentLine int
	TotalLines  int
}

// ProgramComplete is the terminal event: exactly one is emitted per Run,
// whether the program finished, failed on a non-zero error id, or the
// link was lost mid-run.
type ProgramComplete struct {
	Success bool
	Message string
}

type pendingCompletion struct {
	SequenceID uint32
	ErrorID    uint32
}

// Executor coordinates a single in-flight program run. It is not
// reentrant: callers must wait for a Run's output channel to close
// before calling Run again.
type Executor struct {
	mu             sync.Mutex
	requestToLine  map[uint64]int
	sequenceToLine map[uint32]int
	completedLines map[int]bool
	pending        []pendingCompletion
	highWater      int
	completedCount int
}

// New constructs an idle Executor.
func New() *Executor {
	return &Executor{}
}

func (e *Executor) reset() {
	e.requestToLine = make(map[uint64]int)
	e.sequenceToLine = make(map[uint32]int)
	e.completedLines = make(map[int]bool)
	e.pending = nil
	e.highWater = 0
	e.completedCount = 0
}

// completeLine records line's completion (if not already recorded) and
// returns the events it produces, plus whether the run is now finished
// (success or failure).
func (e *Executor) completeLine(line int, errorID uint32, total int) (events []Event, terminal bool) {
	if errorID != 0 {
		return []Event{ProgramComplete{
			Success: false,
			Message: fmt.Sprintf("line %d failed with error_id %d", line, errorID),
		}}, true
	}
	if e.completedLines[line] {
		return nil, false
	}
	e.completedLines[line] = true
	e.completedCount++

	if line > e.highWater {
		e.highWater = line
		events = append(events, InstructionProgress{CurrentLine: e.highWater, TotalLines: total})
		if next := e.highWater + 1; next <= total {
			events = append(events, InstructionSent{CurrentLine: next, TotalLines: total})
		}
	}
	if e.completedCount >= total {
		events = append(events, ProgramComplete{
			Success: true,
			Message: fmt.Sprintf("completed %d instructions", total),
		})
		terminal = true
	}
	return events, terminal
}

// drainPending resolves any buffered completions whose sequence id has
// since been mapped to a line, repeating until a full pass makes no
// progress. Returns the events produced and whether a terminal event is
// among them.
func (e *Executor) drainPending(total int) (events []Event, terminal bool) {
	for {
		progressed := false
		remaining := e.pending[:0:0]
		for _, p := range e.pending {
			line, ok := e.sequenceToLine[p.SequenceID]
			if !ok {
				remaining = append(remaining, p)
				continue
			}
			progressed = true
			more, done := e.completeLine(line, p.ErrorID, total)
			events = append(events, more...)
			if done {
				terminal = true
			}
		}
		e.pending = remaining
		if terminal || !progressed || len(e.pending) == 0 {
			break
		}
	}
	return events, terminal
}
