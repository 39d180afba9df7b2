package hub

import (
	"github.com/shaply/rmibridge/internal/storage"
)

func init() {
	registerHandler("ProgramList", handleProgramList)
	registerHandler("ProgramGet", handleProgramGet)
	registerHandler("ProgramCreate", handleProgramCreate)
	registerHandler("ProgramDelete", handleProgramDelete)
	registerHandler("ProgramUpdateSettings", handleProgramUpdateSettings)
	registerHandler("ProgramInstructionsSet", handleProgramInstructionsSet)
	registerHandler("ProgramInstructionsList", handleProgramInstructionsList)
	registerHandler("UploadCsv", handleUploadCsv)
}

func handleProgramList(s *Session, req Request) Response {
	ctx, cancel := reqCtx()
	defer cancel()
	list, err := s.hub.store.ListPrograms(ctx)
	if err != nil {
		return errResponse(req, err)
	}
	return ok(req.RequestID, "ProgramList", list)
}

type programGetPayload struct {
	ID string `json:"id"`
}

func handleProgramGet(s *Session, req Request) Response {
	var p programGetPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	prog, err := s.hub.store.GetProgram(ctx, p.ID)
	if err != nil {
		return errResponse(req, err)
	}
	instrs, err := s.hub.store.ListInstructions(ctx, p.ID)
	if err != nil {
		return errResponse(req, err)
	}
	return ok(req.RequestID, "ProgramDetail", struct {
		Program      *storage.Program             `json:"program"`
		Instructions []storage.ProgramInstruction `json:"instructions"`
	}{prog, instrs})
}

type programCreatePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func handleProgramCreate(s *Session, req Request) Response {
	var p programCreatePayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	prog, err := s.hub.store.CreateProgram(ctx, p.Name, p.Description)
	if err != nil {
		return errResponse(req, err)
	}
	return ok(req.RequestID, "ProgramDetail", prog)
}

func handleProgramDelete(s *Session, req Request) Response {
	var p programGetPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	if err := s.hub.store.DeleteProgram(ctx, p.ID); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

type programUpdateSettingsPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func handleProgramUpdateSettings(s *Session, req Request) Response {
	var p programUpdateSettingsPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	if err := s.hub.store.UpdateProgramSettings(ctx, p.ID, p.Name, p.Description); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

type programInstructionsSetPayload struct {
	ProgramID    string                        `json:"program_id"`
	Instructions []storage.ProgramInstruction `json:"instructions"`
}

func handleProgramInstructionsSet(s *Session, req Request) Response {
	var p programInstructionsSetPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	if err := s.hub.store.ClearInstructions(ctx, p.ProgramID); err != nil {
		return errResponse(req, err)
	}
	for i := range p.Instructions {
		p.Instructions[i].ProgramID = p.ProgramID
		if err := s.hub.store.AppendInstruction(ctx, p.Instructions[i]); err != nil {
			return errResponse(req, err)
		}
	}
	return ack(req.RequestID)
}

func handleProgramInstructionsList(s *Session, req Request) Response {
	var p programGetPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	instrs, err := s.hub.store.ListInstructions(ctx, p.ID)
	if err != nil {
		return errResponse(req, err)
	}
	return ok(req.RequestID, "ProgramInstructionsList", instrs)
}
