package hub

import (
	"encoding/json"
	"fmt"

	"github.com/shaply/rmibridge/internal/protocol"
)

// decodeInstruction turns a stored instruction row back into a
// protocol.Instruction ready for execution, stamping the given posture
// onto variants that carry a Configuration field. CSV-derived rows
// (motionRow) are handled specially since their stored payload omits
// Configuration entirely.
func decodeInstruction(family, variant string, payload []byte, cfg protocol.Configuration) (protocol.Instruction, error) {
	if family != "Instruction" {
		return nil, fmt.Errorf("not an instruction family: %s", family)
	}

	switch variant {
	case "FrcLinearMotion":
		var row motionRow
		if err := json.Unmarshal(payload, &row); err == nil && (row.X != 0 || row.Y != 0 || row.Z != 0) {
			return &protocol.FrcLinearMotion{
				Configuration: cfg,
				Position:      protocol.Position{X: row.X, Y: row.Y, Z: row.Z, W: row.W, P: row.P, R: row.R},
				Speed:         row.Speed,
				SpeedType:     "mmSec",
				TermType:      row.TermType,
			}, nil
		}
		var instr protocol.FrcLinearMotion
		if err := json.Unmarshal(payload, &instr); err != nil {
			return nil, err
		}
		instr.Configuration = cfg
		return &instr, nil
	case "FrcJointMotion":
		var instr protocol.FrcJointMotion
		if err := json.Unmarshal(payload, &instr); err != nil {
			return nil, err
		}
		instr.Configuration = cfg
		return &instr, nil
	case "FrcWaitTime":
		var instr protocol.FrcWaitTime
		if err := json.Unmarshal(payload, &instr); err != nil {
			return nil, err
		}
		return &instr, nil
	case "FrcWaitDIN":
		var instr protocol.FrcWaitDIN
		if err := json.Unmarshal(payload, &instr); err != nil {
			return nil, err
		}
		return &instr, nil
	case "FrcCall":
		var instr protocol.FrcCall
		if err := json.Unmarshal(payload, &instr); err != nil {
			return nil, err
		}
		return &instr, nil
	default:
		return nil, fmt.Errorf("unsupported instruction variant: %s", variant)
	}
}
