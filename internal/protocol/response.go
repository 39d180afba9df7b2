package protocol

import (
	"encoding/json"
	"fmt"
)

// Response is a decoded inbound envelope: one of the three families
// mirroring the outbound side.
type Response struct {
	Communication *CommunicationResponse
	Command       *CommandResponse
	Instruction   *InstructionResponse
}

// CommunicationResponse mirrors the Communication outbound family.
// FrcConnect carries the new motion-channel port; FrcDisconnect carries
// nothing.
type CommunicationResponse struct {
	Variant    string
	PortNumber int // populated when Variant == "FrcConnect"
}

// CommandResponse is a generic stateless-RPC reply. Fields is the decoded
// variant payload; most Command replies are only logged, so the bridge
// doesn't need typed structs per variant here.
type CommandResponse struct {
	Variant string
	Fields  json.RawMessage
}

// InstructionResponse correlates a completed instruction back to its
// sequence id. ErrorID is 0 on success.
type InstructionResponse struct {
	SequenceID uint32 `json:"sequence_id"`
	ErrorID    uint32 `json:"error_id"`
}

// ParseResponse decodes one frame (without its terminator) into a
// Response. A decode failure is returned as-is; callers are responsible
// for wrapping it as a non-fatal errs.ParseError and retaining raw for
// the error report.
func ParseResponse(raw string) (*Response, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &outer); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	if body, ok := outer["Communication"]; ok {
		return parseCommunicationResponse(body)
	}
	if body, ok := outer["Command"]; ok {
		return parseCommandResponse(body)
	}
	if body, ok := outer["Instruction"]; ok {
		return parseInstructionResponse(body)
	}

	return nil, fmt.Errorf("unrecognized envelope family")
}

func parseCommunicationResponse(body json.RawMessage) (*Response, error) {
	var variant map[string]json.RawMessage
	if err := json.Unmarshal(body, &variant); err != nil {
		return nil, fmt.Errorf("decode Communication variant: %w", err)
	}
	for name, payload := range variant {
		cr := &CommunicationResponse{Variant: name}
		if name == "FrcConnect" {
			var fields struct {
				PortNumber int `json:"PortNumber"`
			}
			if err := json.Unmarshal(payload, &fields); err != nil {
				return nil, fmt.Errorf("decode FrcConnect: %w", err)
			}
			cr.PortNumber = fields.PortNumber
		}
		return &Response{Communication: cr}, nil
	}
	return nil, fmt.Errorf("empty Communication variant")
}

func parseCommandResponse(body json.RawMessage) (*Response, error) {
	var variant map[string]json.RawMessage
	if err := json.Unmarshal(body, &variant); err != nil {
		return nil, fmt.Errorf("decode Command variant: %w", err)
	}
	for name, payload := range variant {
		return &Response{Command: &CommandResponse{Variant: name, Fields: payload}}, nil
	}
	return nil, fmt.Errorf("empty Command variant")
}

func parseInstructionResponse(body json.RawMessage) (*Response, error) {
	var ir InstructionResponse
	if err := json.Unmarshal(body, &ir); err != nil {
		return nil, fmt.Errorf("decode InstructionResponse: %w", err)
	}
	return &Response{Instruction: &ir}, nil
}
