package hub

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/shaply/rmibridge/internal/errs"
	"github.com/shaply/rmibridge/internal/logging"
	"github.com/shaply/rmibridge/internal/protocol"
)

// SendPacket is the compact binary encoding a client may send in place
// of a full JSON Instruction envelope, meant for latency-sensitive
// manual jogging where per-frame JSON overhead matters. It describes a
// single relative motion. Encoded with msgpack, picked up from the
// pack's akinami3 IoT-gateway repo for its own compact device-frame
// encoding.
type SendPacket struct {
	Kind      string            `msgpack:"kind"` // "linear" or "joint"
	Position  protocol.Position `msgpack:"position"`
	Joint     [6]float64        `msgpack:"joint"`
	Speed     float64           `msgpack:"speed"`
	SpeedType string            `msgpack:"speed_type"`
}

func (p SendPacket) encode() ([]byte, error) { return msgpack.Marshal(p) }

func decodeSendPacket(data []byte) (SendPacket, error) {
	var p SendPacket
	err := msgpack.Unmarshal(data, &p)
	return p, err
}

// ResponsePacket is the compact binary encoding of a single robot
// response, fanned out to every session regardless of lease ownership
// (outbound binary frames aren't lease-gated; only inbound ones are,
// per spec.md §6).
type ResponsePacket struct {
	Family  string `msgpack:"family"`
	Variant string `msgpack:"variant"`
	Payload []byte `msgpack:"payload"`
}

func (p ResponsePacket) encode() ([]byte, error) { return msgpack.Marshal(p) }

// handleBinary implements the binary half of spec.md §4.E's dispatch: the
// session must hold the control lease, and the packet is converted into
// an Instruction and forwarded to the link at Immediate priority (manual
// jogging preempts queued program waypoints).
func (s *Session) handleBinary(data []byte) {
	if !s.hub.arbiter.HasControl(s.ID) {
		s.replyError("", errs.ErrControlDenied)
		return
	}

	packet, err := decodeSendPacket(data)
	if err != nil {
		s.replyError("", &errs.ParseError{Raw: string(data), Cause: err})
		return
	}

	l := s.hub.currentLink()
	if l == nil || !l.Connected() {
		s.replyError("", errs.ErrDisconnected)
		return
	}

	var instr protocol.Instruction
	cfg := s.hub.active.Get()
	switch packet.Kind {
	case "joint":
		instr = &protocol.FrcJointRelative{JointAngle: packet.Joint, Speed: packet.Speed, SpeedType: packet.SpeedType}
	default:
		instr = &protocol.FrcLinearRelative{Configuration: cfg, Position: packet.Position, Speed: packet.Speed, SpeedType: packet.SpeedType}
	}

	if _, err := l.Submit(instr, protocol.PriorityImmediate); err != nil {
		logging.DebugError(err)
		s.replyError("", err)
		return
	}
	s.hub.arbiter.Touch(s.ID)
}
