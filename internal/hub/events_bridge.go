package hub

import (
	"github.com/shaply/rmibridge/internal/control"
	"github.com/shaply/rmibridge/internal/events"
	"github.com/shaply/rmibridge/internal/link"
)

// bridgeEvents subscribes the hub to the process-wide event bus so that
// arbiter and link state transitions reach every connected session as
// unsolicited responses, without internal/control or internal/link
// importing internal/hub.
func (h *Hub) bridgeEvents() {
	h.bus.Subscribe(control.EventControlChanged, nil, func(ev events.Event) {
		h.broadcastAll(ok("", "ControlChanged", ev.GetData()))
	})
	h.bus.Subscribe(control.EventControlLost, nil, func(ev events.Event) {
		cl, ok2 := ev.GetData().(control.ControlLost)
		if !ok2 {
			return
		}
		if s, found := h.sessions.Get(cl.Holder); found {
			s.sendText(ok("", "ControlLost", cl))
		}
	})
	h.bus.Subscribe(link.EventRobotDisconnected, nil, func(ev events.Event) {
		h.broadcastAll(Response{Type: "RobotDisconnected"})
	})
	h.bus.Subscribe(link.EventProtocolError, nil, func(ev events.Event) {
		pe, ok2 := ev.GetData().(link.ProtocolError)
		if !ok2 {
			return
		}
		h.broadcastAll(ok("", "RobotError", map[string]string{
			"type":     "protocol",
			"raw_data": pe.Raw,
		}))
	})
}
