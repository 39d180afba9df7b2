package hub

import (
	"context"
	"fmt"

	"github.com/shaply/rmibridge/internal/errs"
	"github.com/shaply/rmibridge/internal/executor"
	"github.com/shaply/rmibridge/internal/logging"
)

func init() {
	registerHandler("ExecutionLoad", handleExecutionLoad)
	registerHandler("ExecutionStart", handleExecutionStart)
	registerHandler("ExecutionPause", handleExecutionPause)
	registerHandler("ExecutionResume", handleExecutionResume)
	registerHandler("ExecutionStop", handleExecutionStop)
	registerHandler("ExecutionUnload", handleExecutionUnload)
}

type executionLoadPayload struct {
	ProgramID string `json:"program_id"`
}

func handleExecutionLoad(s *Session, req Request) Response {
	var p executionLoadPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}

	ctx, cancel := reqCtx()
	defer cancel()
	prog, err := s.hub.store.GetProgram(ctx, p.ProgramID)
	if err != nil {
		return errResponse(req, err)
	}
	rows, err := s.hub.store.ListInstructions(ctx, p.ProgramID)
	if err != nil {
		return errResponse(req, err)
	}

	cfg := s.hub.active.Get()
	loaded := &executor.Program{ID: prog.ID, Name: prog.Name}
	for _, row := range rows {
		instr, err := decodeInstruction(row.Family, row.Variant, row.Payload, cfg)
		if err != nil {
			return errResponse(req, fmt.Errorf("line %d: %w", row.Line, err))
		}
		loaded.Instructions = append(loaded.Instructions, instr)
	}
	s.hub.runProgram.Store(loaded)

	return ok(req.RequestID, "ProgramDetail", struct {
		ProgramID string `json:"program_id"`
		Lines     int    `json:"lines"`
	}{prog.ID, len(loaded.Instructions)})
}

func handleExecutionStart(s *Session, req Request) Response {
	l := s.hub.currentLink()
	if l == nil || !l.Connected() {
		return errResponse(req, errs.ErrDisconnected)
	}
	if !s.hub.arbiter.HasControl(s.ID) {
		return errResponse(req, &errs.DeniedError{Holder: s.hub.arbiter.Status(), Reason: "control required to start execution"})
	}
	program := s.hub.runProgram.Load()
	if program == nil {
		return errResponse(req, fmt.Errorf("no program loaded"))
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.hub.runCancel.Store(&cancel)

	events := s.hub.exec.Run(runCtx, l, program)
	go func() {
		for ev := range events {
			s.hub.broadcastAll(ok("", executionEventType(ev), ev))
		}
		logging.DebugPrint("execution of program %s finished", program.ID)
	}()

	return ack(req.RequestID)
}

func handleExecutionPause(s *Session, req Request) Response {
	l := s.hub.currentLink()
	if l == nil {
		return errResponse(req, errs.ErrDisconnected)
	}
	if err := executor.Pause(l); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

func handleExecutionResume(s *Session, req Request) Response {
	l := s.hub.currentLink()
	if l == nil {
		return errResponse(req, errs.ErrDisconnected)
	}
	if err := executor.Resume(l); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

func handleExecutionStop(s *Session, req Request) Response {
	l := s.hub.currentLink()
	if l == nil {
		return errResponse(req, errs.ErrDisconnected)
	}
	if cancel := s.hub.runCancel.Load(); cancel != nil {
		(*cancel)()
	}
	if _, err := executor.Stop(l); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

func handleExecutionUnload(s *Session, req Request) Response {
	s.hub.runProgram.Store(nil)
	return ack(req.RequestID)
}

func executionEventType(ev executor.Event) string {
	switch ev.(type) {
	case executor.ExecutionStarted:
		return "ExecutionStarted"
	case executor.InstructionSent:
		return "InstructionSent"
	case executor.InstructionProgress:
		return "InstructionProgress"
	case executor.ProgramComplete:
		return "ProgramComplete"
	default:
		return "ExecutionStateChanged"
	}
}
