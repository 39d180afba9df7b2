package hub

import (
	"encoding/json"
	"testing"

	"github.com/shaply/rmibridge/internal/protocol"
)

func TestDecodeInstructionRejectsNonInstructionFamily(t *testing.T) {
	_, err := decodeInstruction("Command", "FrcGetStatus", nil, protocol.Configuration{})
	if err == nil {
		t.Fatal("expected error for non-Instruction family")
	}
}

func TestDecodeInstructionCSVDerivedLinearMotion(t *testing.T) {
	row := motionRow{X: 1, Y: 2, Z: 3, Speed: 50, TermType: "FINE"}
	payload, _ := row.marshal()
	cfg := protocol.Configuration{UFrame: 2, UTool: 1}

	instr, err := decodeInstruction("Instruction", "FrcLinearMotion", payload, cfg)
	if err != nil {
		t.Fatalf("decodeInstruction: %v", err)
	}
	lm, ok := instr.(*protocol.FrcLinearMotion)
	if !ok {
		t.Fatalf("instr = %T; want *protocol.FrcLinearMotion", instr)
	}
	if lm.Configuration != cfg {
		t.Errorf("Configuration = %+v; want stamped %+v", lm.Configuration, cfg)
	}
	if lm.Position.X != 1 || lm.Position.Y != 2 || lm.Position.Z != 3 {
		t.Errorf("Position = %+v; want X=1 Y=2 Z=3", lm.Position)
	}
}

func TestDecodeInstructionFullFrcLinearMotionStampsConfiguration(t *testing.T) {
	stored := protocol.FrcLinearMotion{
		Position:  protocol.Position{X: 7, Y: 8, Z: 9},
		Speed:     30,
		SpeedType: "mmSec",
		TermType:  "FINE",
	}
	payload, _ := json.Marshal(stored)
	cfg := protocol.Configuration{UFrame: 3}

	instr, err := decodeInstruction("Instruction", "FrcLinearMotion", payload, cfg)
	if err != nil {
		t.Fatalf("decodeInstruction: %v", err)
	}
	lm := instr.(*protocol.FrcLinearMotion)
	if lm.Configuration.UFrame != 3 {
		t.Errorf("Configuration.UFrame = %d; want 3", lm.Configuration.UFrame)
	}
}

func TestDecodeInstructionJointMotion(t *testing.T) {
	stored := protocol.FrcJointMotion{JointAngle: [6]float64{1, 2, 3, 4, 5, 6}, Speed: 10}
	payload, _ := json.Marshal(stored)
	cfg := protocol.Configuration{UFrame: 1}

	instr, err := decodeInstruction("Instruction", "FrcJointMotion", payload, cfg)
	if err != nil {
		t.Fatalf("decodeInstruction: %v", err)
	}
	jm := instr.(*protocol.FrcJointMotion)
	if jm.JointAngle != stored.JointAngle {
		t.Errorf("JointAngle = %v; want %v", jm.JointAngle, stored.JointAngle)
	}
	if jm.Configuration != cfg {
		t.Errorf("Configuration = %+v; want %+v", jm.Configuration, cfg)
	}
}

func TestDecodeInstructionWaitTime(t *testing.T) {
	stored := protocol.FrcWaitTime{Time: 2.5}
	payload, _ := json.Marshal(stored)

	instr, err := decodeInstruction("Instruction", "FrcWaitTime", payload, protocol.Configuration{})
	if err != nil {
		t.Fatalf("decodeInstruction: %v", err)
	}
	wt := instr.(*protocol.FrcWaitTime)
	if wt.Time != 2.5 {
		t.Errorf("Time = %v; want 2.5", wt.Time)
	}
}

func TestDecodeInstructionUnsupportedVariant(t *testing.T) {
	_, err := decodeInstruction("Instruction", "FrcCircularMotion", []byte("{}"), protocol.Configuration{})
	if err == nil {
		t.Fatal("expected error for unsupported variant")
	}
}
