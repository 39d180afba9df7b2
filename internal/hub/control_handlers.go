package hub

func init() {
	registerHandler("ControlRequest", handleControlRequest)
	registerHandler("ControlRelease", handleControlRelease)
	registerHandler("ControlStatus", handleControlStatus)
}

// Both handlers rely on internal/control publishing ControlChanged on the
// shared event bus; bridgeEvents fans that out to every session, so no
// broadcast happens here directly.

func handleControlRequest(s *Session, req Request) Response {
	if err := s.hub.arbiter.Request(s.ID); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

func handleControlRelease(s *Session, req Request) Response {
	s.hub.arbiter.Release(s.ID)
	return ack(req.RequestID)
}

func handleControlStatus(s *Session, req Request) Response {
	return ok(req.RequestID, "ControlStatus", struct {
		Holder string `json:"holder"`
		Mine   bool   `json:"mine"`
	}{s.hub.arbiter.Status(), s.hub.arbiter.HasControl(s.ID)})
}
