package hub

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shaply/rmibridge/internal/executor"
)

func TestDecodePayloadEmptyIsNoop(t *testing.T) {
	var v struct{ X int }
	if err := decodePayload(Request{}, &v); err != nil {
		t.Errorf("decodePayload with no payload: %v", err)
	}
}

func TestDecodePayloadUnmarshalsInto(t *testing.T) {
	req := Request{Payload: json.RawMessage(`{"x":5}`)}
	var v struct {
		X int `json:"x"`
	}
	if err := decodePayload(req, &v); err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if v.X != 5 {
		t.Errorf("v.X = %d; want 5", v.X)
	}
}

func TestErrResponseCarriesRequestID(t *testing.T) {
	resp := errResponse(Request{RequestID: "abc"}, errors.New("boom"))
	if resp.Type != "Error" || resp.RequestID != "abc" || resp.Error != "boom" {
		t.Errorf("errResponse = %+v; want Error/abc/boom", resp)
	}
}

func TestAckAndOk(t *testing.T) {
	a := ack("r1")
	if a.Type != "Ack" || a.RequestID != "r1" {
		t.Errorf("ack = %+v", a)
	}
	o := ok("r2", "Widget", 7)
	if o.Type != "Widget" || o.RequestID != "r2" || o.Payload != 7 {
		t.Errorf("ok = %+v", o)
	}
}

func TestRegisterHandlerPopulatesRequestHandlers(t *testing.T) {
	// programs.go/execution.go/etc register via init(); sanity-check a
	// representative sample made it into the table.
	for _, typ := range []string{"ProgramList", "ExecutionStart", "ControlRequest", "LinkConnect", "IORead"} {
		if _, ok := requestHandlers[typ]; !ok {
			t.Errorf("requestHandlers missing %q", typ)
		}
	}
}

func TestExecutionEventTypeNaming(t *testing.T) {
	cases := []struct {
		ev   executor.Event
		want string
	}{
		{executor.ExecutionStarted{}, "ExecutionStarted"},
		{executor.InstructionSent{}, "InstructionSent"},
		{executor.InstructionProgress{}, "InstructionProgress"},
		{executor.ProgramComplete{}, "ProgramComplete"},
	}
	for _, c := range cases {
		if got := executionEventType(c.ev); got != c.want {
			t.Errorf("executionEventType(%T) = %q; want %q", c.ev, got, c.want)
		}
	}
}
