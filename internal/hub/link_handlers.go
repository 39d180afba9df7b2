package hub

import (
	"context"
	"fmt"

	"github.com/shaply/rmibridge/internal/config"
	"github.com/shaply/rmibridge/internal/link"
)

func init() {
	registerHandler("LinkConnect", handleLinkConnect)
	registerHandler("LinkDisconnect", handleLinkDisconnect)
}

type linkConnectPayload struct {
	ConnectionID string `json:"connection_id,omitempty"`
	Host         string `json:"host,omitempty"`
	ControlPort  string `json:"control_port,omitempty"`
}

func handleLinkConnect(s *Session, req Request) Response {
	var p linkConnectPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}

	host, port := p.Host, p.ControlPort
	if p.ConnectionID != "" {
		ctx, cancel := reqCtx()
		conn, err := s.hub.store.GetConnection(ctx, p.ConnectionID)
		cancel()
		if err != nil {
			return errResponse(req, err)
		}
		host, port = conn.Host, conn.ControlPort
	}
	if host == "" {
		host = s.hub.defaultHost
	}
	if port == "" {
		port = s.hub.defaultPort
	}

	l, err := link.Connect(context.Background(), host, port, s.hub.bus)
	if err != nil {
		return errResponse(req, err)
	}
	s.hub.SetLink(l)
	l.StartTelemetryPoll(context.Background(), config.TelemetryPollInterval)

	return ok(req.RequestID, "ConnectionStateChanged", struct {
		Connected bool   `json:"connected"`
		Host      string `json:"host"`
	}{true, host})
}

func handleLinkDisconnect(s *Session, req Request) Response {
	l := s.hub.currentLink()
	if l == nil {
		return errResponse(req, fmt.Errorf("no active link"))
	}
	l.Disconnect()
	s.hub.SetLink(nil)
	return ack(req.RequestID)
}
