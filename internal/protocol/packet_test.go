package protocol

import (
	"encoding/json"
	"testing"
)

func TestEncodeEnvelopeWrapsFamilyAndVariant(t *testing.T) {
	data, err := EncodeEnvelope(FrcGetStatus{})
	if err != nil {
		t.Fatalf("EncodeEnvelope: %v", err)
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		t.Fatalf("outer unmarshal: %v", err)
	}
	commandBody, ok := outer["Command"]
	if !ok {
		t.Fatalf("outer = %s; missing Command key", data)
	}

	var inner map[string]json.RawMessage
	if err := json.Unmarshal(commandBody, &inner); err != nil {
		t.Fatalf("inner unmarshal: %v", err)
	}
	if _, ok := inner["FrcGetStatus"]; !ok {
		t.Errorf("inner = %s; missing FrcGetStatus key", commandBody)
	}
}

func TestEncodeEnvelopeInstructionCarriesSequenceID(t *testing.T) {
	instr := &FrcWaitTime{Time: 1.5}
	instr.SetSequenceID(42)

	data, err := EncodeEnvelope(instr)
	if err != nil {
		t.Fatalf("EncodeEnvelope: %v", err)
	}

	var outer map[string]json.RawMessage
	json.Unmarshal(data, &outer)
	var variant map[string]json.RawMessage
	json.Unmarshal(outer["Instruction"], &variant)

	var decoded FrcWaitTime
	if err := json.Unmarshal(variant["FrcWaitTime"], &decoded); err != nil {
		t.Fatalf("decode FrcWaitTime: %v", err)
	}
	if decoded.SequenceID != 42 {
		t.Errorf("SequenceID = %d; want 42", decoded.SequenceID)
	}
	if decoded.Time != 1.5 {
		t.Errorf("Time = %v; want 1.5", decoded.Time)
	}
}

func TestInstructionHeaderAccessors(t *testing.T) {
	var h InstructionHeader
	h.SetSequenceID(9)
	if h.GetSequenceID() != 9 {
		t.Errorf("GetSequenceID() = %d; want 9", h.GetSequenceID())
	}
}

func TestFamilyAndVariantTagsOutboundTypes(t *testing.T) {
	cases := []struct {
		o               Outbound
		family, variant string
	}{
		{FrcConnect{}, "Communication", "FrcConnect"},
		{FrcGetStatus{}, "Command", "FrcGetStatus"},
		{&FrcJointMotion{}, "Instruction", "FrcJointMotion"},
		{&FrcSetUFrame{}, "Instruction", "FrcSetUFrame"},
	}
	for _, c := range cases {
		if c.o.Family() != c.family {
			t.Errorf("%T.Family() = %q; want %q", c.o, c.o.Family(), c.family)
		}
		if c.o.Variant() != c.variant {
			t.Errorf("%T.Variant() = %q; want %q", c.o, c.o.Variant(), c.variant)
		}
	}
}
