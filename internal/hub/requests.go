package hub

import (
	"encoding/json"

	"github.com/shaply/rmibridge/internal/logging"
)

// Request is the client→server tagged JSON envelope. Payload is decoded
// per-Type by the handler that owns it.
type Request struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (s *Session) handleText(data []byte) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		s.replyError("", err)
		return
	}

	handler, ok := requestHandlers[req.Type]
	if !ok {
		s.sendText(Response{Type: "Error", RequestID: req.RequestID, Error: "unrecognized request type: " + req.Type})
		return
	}

	resp := handler(s, req)
	s.sendText(resp)
}

// requestHandlers maps each tagged request type to its handler. Table
// form instead of a type switch keeps registration local to the file
// that defines each family of operations (programs.go, execution.go,
// connections.go, io_handlers.go).
var requestHandlers = map[string]func(*Session, Request) Response{}

func registerHandler(typ string, fn func(*Session, Request) Response) {
	requestHandlers[typ] = fn
}

func decodePayload(req Request, v interface{}) error {
	if len(req.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(req.Payload, v)
}

func errResponse(req Request, err error) Response {
	logging.DebugError(err)
	return Response{Type: "Error", RequestID: req.RequestID, Error: err.Error()}
}
