package protocol

import "testing"

func TestParseResponseCommunicationFrcConnect(t *testing.T) {
	raw := `{"Communication":{"FrcConnect":{"PortNumber":16002}}}`
	resp, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Communication == nil {
		t.Fatal("Communication = nil")
	}
	if resp.Communication.Variant != "FrcConnect" {
		t.Errorf("Variant = %q; want FrcConnect", resp.Communication.Variant)
	}
	if resp.Communication.PortNumber != 16002 {
		t.Errorf("PortNumber = %d; want 16002", resp.Communication.PortNumber)
	}
}

func TestParseResponseCommand(t *testing.T) {
	raw := `{"Command":{"FrcReadDIN":{"Value":true}}}`
	resp, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Command == nil || resp.Command.Variant != "FrcReadDIN" {
		t.Fatalf("Command = %+v; want Variant FrcReadDIN", resp.Command)
	}
}

func TestParseResponseInstruction(t *testing.T) {
	raw := `{"Instruction":{"sequence_id":5,"error_id":0}}`
	resp, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Instruction == nil {
		t.Fatal("Instruction = nil")
	}
	if resp.Instruction.SequenceID != 5 || resp.Instruction.ErrorID != 0 {
		t.Errorf("Instruction = %+v; want {SequenceID: 5, ErrorID: 0}", resp.Instruction)
	}
}

func TestParseResponseUnrecognizedFamily(t *testing.T) {
	_, err := ParseResponse(`{"Bogus":{}}`)
	if err == nil {
		t.Fatal("expected error for unrecognized family")
	}
}

func TestParseResponseMalformedJSON(t *testing.T) {
	_, err := ParseResponse(`not json`)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
