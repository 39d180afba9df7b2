package hub

import (
	"fmt"

	"github.com/shaply/rmibridge/internal/errs"
	"github.com/shaply/rmibridge/internal/protocol"
)

func init() {
	registerHandler("IORead", handleIORead)
	registerHandler("FrameRead", handleFrameRead)
	registerHandler("FrameWrite", handleFrameWrite)
	registerHandler("ToolRead", handleToolRead)
	registerHandler("ToolWrite", handleToolWrite)
	registerHandler("ConfigurationList", handleConfigurationList)
	registerHandler("ConfigurationLoad", handleConfigurationLoad)
	registerHandler("ConfigurationSave", handleConfigurationSave)
}

type ioReadPayload struct {
	DIN int `json:"din"`
}

// handleIORead submits FrcReadDIN. Per I4, non-mutating reads are
// lease-free.
func handleIORead(s *Session, req Request) Response {
	var p ioReadPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	l := s.hub.currentLink()
	if l == nil || !l.Connected() {
		return errResponse(req, errs.ErrDisconnected)
	}
	if _, err := l.Submit(protocol.FrcReadDIN{DIN: p.DIN}, protocol.PriorityHigh); err != nil {
		return errResponse(req, err)
	}
	// The actual value arrives asynchronously on the robot's response
	// broadcast and reaches this session through the hub's fan-out.
	return ack(req.RequestID)
}

func handleFrameRead(s *Session, req Request) Response {
	cfg := s.hub.active.Get()
	return ok(req.RequestID, "FrameValue", struct {
		UFrame int `json:"uframe"`
	}{cfg.UFrame})
}

type frameWritePayload struct {
	Frame int `json:"frame"`
}

// handleFrameWrite mutates the active configuration and submits the
// corresponding Instruction; mutating actions require the lease (I4).
func handleFrameWrite(s *Session, req Request) Response {
	if !s.hub.arbiter.HasControl(s.ID) {
		return errResponse(req, &errs.DeniedError{Holder: s.hub.arbiter.Status(), Reason: "control required to change frame"})
	}
	var p frameWritePayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	l := s.hub.currentLink()
	if l == nil || !l.Connected() {
		return errResponse(req, errs.ErrDisconnected)
	}
	if _, err := l.Submit(&protocol.FrcSetUFrame{Frame: p.Frame}, protocol.PriorityStandard); err != nil {
		return errResponse(req, err)
	}
	cfg := s.hub.active.Get()
	cfg.UFrame = p.Frame
	s.hub.active.Set(cfg)
	s.hub.arbiter.Touch(s.ID)
	return ack(req.RequestID)
}

func handleToolRead(s *Session, req Request) Response {
	cfg := s.hub.active.Get()
	return ok(req.RequestID, "ToolValue", struct {
		UTool int `json:"utool"`
	}{cfg.UTool})
}

type toolWritePayload struct {
	Tool int `json:"tool"`
}

func handleToolWrite(s *Session, req Request) Response {
	if !s.hub.arbiter.HasControl(s.ID) {
		return errResponse(req, &errs.DeniedError{Holder: s.hub.arbiter.Status(), Reason: "control required to change tool"})
	}
	var p toolWritePayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	l := s.hub.currentLink()
	if l == nil || !l.Connected() {
		return errResponse(req, errs.ErrDisconnected)
	}
	if _, err := l.Submit(&protocol.FrcSetUTool{Tool: p.Tool}, protocol.PriorityStandard); err != nil {
		return errResponse(req, err)
	}
	cfg := s.hub.active.Get()
	cfg.UTool = p.Tool
	s.hub.active.Set(cfg)
	s.hub.arbiter.Touch(s.ID)
	return ack(req.RequestID)
}

type configurationListPayload struct {
	ConnectionID string `json:"connection_id"`
}

func handleConfigurationList(s *Session, req Request) Response {
	var p configurationListPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	list, err := s.hub.store.ListConfigurations(ctx, p.ConnectionID)
	if err != nil {
		return errResponse(req, err)
	}
	return ok(req.RequestID, "ConfigurationList", list)
}

type configurationLoadPayload struct {
	ID string `json:"id"`
}

func handleConfigurationLoad(s *Session, req Request) Response {
	var p configurationLoadPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	cfg, err := s.hub.store.GetConfiguration(ctx, p.ID)
	if err != nil {
		return errResponse(req, err)
	}
	s.hub.active.Set(cfg.Configuration)
	return ok(req.RequestID, "ConfigurationUpdated", cfg)
}

type configurationSavePayload struct {
	ConnectionID string `json:"connection_id"`
	Name         string `json:"name"`
}

func handleConfigurationSave(s *Session, req Request) Response {
	var p configurationSavePayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	if p.ConnectionID == "" {
		return errResponse(req, fmt.Errorf("connection_id is required"))
	}
	ctx, cancel := reqCtx()
	defer cancel()
	saved, err := s.hub.store.CreateConfiguration(ctx, configurationFrom(p.ConnectionID, p.Name, s.hub.active.Get()))
	if err != nil {
		return errResponse(req, err)
	}
	return ok(req.RequestID, "ConfigurationUpdated", saved)
}
