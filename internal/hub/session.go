package hub

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaply/rmibridge/internal/logging"
)

// upgrader allows any origin, matching the teacher's http_server/robot.go
// (a TODO there notes proper origin checks are future work; this bridge
// inherits the same posture since it targets a trusted local network).
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	sessionSendBuffer = 64
	sessionWriteWait  = 5 * time.Second
)

// Session is one client WebSocket connection: a recv goroutine reading
// frames, and a send goroutine draining outText/outBin so a slow client
// never blocks another session or the fan-out.
type Session struct {
	ID   string
	conn *websocket.Conn
	hub  *Hub

	outText chan []byte
	outBin  chan []byte
	closed  chan struct{}
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.DebugError(err)
		return
	}

	s := &Session{
		ID:      newSessionID(),
		conn:    conn,
		hub:     h,
		outText: make(chan []byte, sessionSendBuffer),
		outBin:  make(chan []byte, sessionSendBuffer),
		closed:  make(chan struct{}),
	}
	h.sessions.Set(s.ID, s)
	logging.DebugPrint("session %s connected", s.ID)

	go s.sendLoop()
	s.recvLoop()
}

func (s *Session) recvLoop() {
	defer s.teardown()
	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		switch msgType {
		case websocket.TextMessage:
			s.handleText(data)
		case websocket.BinaryMessage:
			s.handleBinary(data)
		}
	}
}

func (s *Session) sendLoop() {
	for {
		select {
		case <-s.closed:
			return
		case data, ok := <-s.outText:
			if !ok {
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case data, ok := <-s.outBin:
			if !ok {
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		}
	}
}

// SendBinary offers data to the session's outbound binary channel without
// blocking. A session that cannot keep up with the fan-out is dropped
// rather than allowed to stall every other session.
func (s *Session) SendBinary(data []byte) {
	select {
	case s.outBin <- data:
	default:
		logging.DebugPrint("session %s lagging on binary fan-out, dropping", s.ID)
		s.teardown()
	}
}

func (s *Session) sendText(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.DebugError(err)
		return
	}
	select {
	case s.outText <- data:
	default:
		logging.DebugPrint("session %s lagging on text replies, dropping", s.ID)
	}
}

func (s *Session) teardown() {
	select {
	case <-s.closed:
		return // already torn down
	default:
	}
	close(s.closed)
	s.hub.arbiter.ForceRelease(s.ID)
	s.hub.sessions.Delete(s.ID)
	s.conn.Close()
	logging.DebugPrint("session %s disconnected", s.ID)
}

func (s *Session) replyError(requestID string, err error) {
	s.sendText(Response{
		Type:      "Error",
		RequestID: requestID,
		Error:     err.Error(),
	})
}

