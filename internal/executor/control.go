package executor

import (
	"github.com/shaply/rmibridge/internal/link"
	"github.com/shaply/rmibridge/internal/protocol"
)

// Pause and Resume ride the link's DriverCommand channel: they never
// touch the wire directly, they only flip the sender loop's state, so
// instructions already in flight are left to complete.
func Pause(lk *link.Link) error {
	return lk.SubmitCommand(protocol.CommandPause)
}

func Resume(lk *link.Link) error {
	return lk.SubmitCommand(protocol.CommandUnpause)
}

// Stop submits FrcAbort at Termination priority, which clears the send
// queue and preempts everything ahead of it. Stop does not end a Run by
// itself (FrcAbort is a Command and produces no instruction completion);
// the caller cancels the Run's context, which makes it emit
// ProgramComplete{Success: false, Message: "stopped"}.
func Stop(lk *link.Link) (uint64, error) {
	return lk.Submit(protocol.FrcAbort{}, protocol.PriorityTermination)
}
