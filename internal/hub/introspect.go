package hub

// The accessors in this file exist for internal/console: a debug surface
// has no business reaching into Hub's private fields, so it gets a small
// read-only API instead.

// SessionIDs returns a snapshot of every connected session's id.
func (h *Hub) SessionIDs() []string {
	return h.sessions.Keys()
}

// LinkStatus reports whether a robot link is installed and connected,
// its current in-flight request count, and how many response consumers
// (the hub's fan-out) are subscribed to it.
func (h *Hub) LinkStatus() (connected bool, inFlight int32, responseSubs int) {
	l := h.currentLink()
	if l == nil || !l.Connected() {
		return false, 0, 0
	}
	return true, l.InFlight(), l.ResponseSubscriberCount()
}

// ControlHolder returns the session id holding the control lease, or ""
// if it is free.
func (h *Hub) ControlHolder() string {
	return h.arbiter.Status()
}

// ForceDisconnect tears down the named session, if connected. Used by the
// debug console's "kick" command.
func (h *Hub) ForceDisconnect(sessionID string) bool {
	s, ok := h.sessions.Get(sessionID)
	if !ok {
		return false
	}
	s.teardown()
	return true
}
