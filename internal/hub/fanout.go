package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shaply/rmibridge/internal/config"
	"github.com/shaply/rmibridge/internal/link"
	"github.com/shaply/rmibridge/internal/logging"
	"github.com/shaply/rmibridge/internal/protocol"
)

// runFanout subscribes to the current link's response broadcast and
// forwards every response to every session as a binary ResponsePacket.
// It re-checks the link pointer every HubResubscribeInterval rather than
// relying on the old subscription channel closing, since that channel is
// closed only when the old link tears down, not when a new link is
// installed — see spec.md §4.E.
func (h *Hub) runFanout(ctx context.Context) {
	var subscribed *link.Link
	var subID string
	var ch <-chan link.Message[protocol.Response]

	ticker := time.NewTicker(config.HubResubscribeInterval)
	defer ticker.Stop()

	unsubscribe := func() {
		if subscribed != nil {
			subscribed.UnsubscribeResponses(subID)
			subscribed, subID, ch = nil, "", nil
		}
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			cur := h.currentLink()
			if cur == subscribed {
				continue
			}
			unsubscribe()
			if cur != nil {
				subID, ch = cur.SubscribeResponses()
				subscribed = cur
			}

		case msg, ok := <-ch:
			if !ok {
				ch = nil
				continue
			}
			if msg.Lagged {
				logging.DebugPrint("hub fan-out lagged behind the robot response stream")
				continue
			}
			h.fanOutResponse(msg.Value)
		}
	}
}

func (h *Hub) fanOutResponse(resp protocol.Response) {
	packet := ResponsePacket{}
	switch {
	case resp.Communication != nil:
		packet.Family, packet.Variant = "Communication", resp.Communication.Variant
	case resp.Command != nil:
		packet.Family, packet.Variant = "Command", resp.Command.Variant
	case resp.Instruction != nil:
		packet.Family, packet.Variant = "Instruction", "InstructionResponse"
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		logging.DebugError(err)
		return
	}
	packet.Payload = payload

	encoded, err := packet.encode()
	if err != nil {
		logging.DebugError(err)
		return
	}
	for _, s := range h.sessions.Values() {
		s.SendBinary(encoded)
	}
}
