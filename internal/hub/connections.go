package hub

import (
	"github.com/google/uuid"
	"github.com/shaply/rmibridge/internal/protocol"
	"github.com/shaply/rmibridge/internal/storage"
)

func init() {
	registerHandler("ConnectionList", handleConnectionList)
	registerHandler("ConnectionGet", handleConnectionGet)
	registerHandler("ConnectionCreate", handleConnectionCreate)
	registerHandler("ConnectionUpdate", handleConnectionUpdate)
	registerHandler("ConnectionDelete", handleConnectionDelete)
	registerHandler("ConfigurationDelete", handleConfigurationDelete)
	registerHandler("ConfigurationSetDefault", handleConfigurationSetDefault)
	registerHandler("SettingsGet", handleSettingsGet)
	registerHandler("SettingsUpdate", handleSettingsUpdate)
	registerHandler("IODisplayConfigGet", handleIODisplayConfigGet)
	registerHandler("IODisplayConfigUpsert", handleIODisplayConfigUpsert)
}

func handleConnectionList(s *Session, req Request) Response {
	ctx, cancel := reqCtx()
	defer cancel()
	list, err := s.hub.store.ListConnections(ctx)
	if err != nil {
		return errResponse(req, err)
	}
	return ok(req.RequestID, "ConnectionList", list)
}

type connectionIDPayload struct {
	ID string `json:"id"`
}

func handleConnectionGet(s *Session, req Request) Response {
	var p connectionIDPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	c, err := s.hub.store.GetConnection(ctx, p.ID)
	if err != nil {
		return errResponse(req, err)
	}
	return ok(req.RequestID, "Connection", c)
}

func handleConnectionCreate(s *Session, req Request) Response {
	var c storage.SavedConnection
	if err := decodePayload(req, &c); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	saved, err := s.hub.store.CreateConnection(ctx, c)
	if err != nil {
		return errResponse(req, err)
	}
	return ok(req.RequestID, "Connection", saved)
}

func handleConnectionUpdate(s *Session, req Request) Response {
	var c storage.SavedConnection
	if err := decodePayload(req, &c); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	if err := s.hub.store.UpdateConnection(ctx, c); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

func handleConnectionDelete(s *Session, req Request) Response {
	var p connectionIDPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	if err := s.hub.store.DeleteConnection(ctx, p.ID); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

type configurationDeletePayload struct {
	ID string `json:"id"`
}

func handleConfigurationDelete(s *Session, req Request) Response {
	var p configurationDeletePayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	if err := s.hub.store.DeleteConfiguration(ctx, p.ID); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

type configurationSetDefaultPayload struct {
	ConnectionID string `json:"connection_id"`
	ID           string `json:"id"`
}

func handleConfigurationSetDefault(s *Session, req Request) Response {
	var p configurationSetDefaultPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	if err := s.hub.store.SetDefaultConfiguration(ctx, p.ConnectionID, p.ID); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

func handleSettingsGet(s *Session, req Request) Response {
	ctx, cancel := reqCtx()
	defer cancel()
	settings, err := s.hub.store.GetRobotSettings(ctx)
	if err != nil {
		return errResponse(req, err)
	}
	return ok(req.RequestID, "Settings", settings)
}

func handleSettingsUpdate(s *Session, req Request) Response {
	var rs storage.RobotSettings
	if err := decodePayload(req, &rs); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	if err := s.hub.store.UpdateRobotSettings(ctx, rs); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

type ioDisplayGetPayload struct {
	RobotID string `json:"robot_id"`
}

func handleIODisplayConfigGet(s *Session, req Request) Response {
	var p ioDisplayGetPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	cfg, err := s.hub.store.GetIODisplayConfig(ctx, p.RobotID)
	if err != nil {
		return errResponse(req, err)
	}
	return ok(req.RequestID, "IODisplayConfig", cfg)
}

func handleIODisplayConfigUpsert(s *Session, req Request) Response {
	var cfg storage.IODisplayConfig
	if err := decodePayload(req, &cfg); err != nil {
		return errResponse(req, err)
	}
	ctx, cancel := reqCtx()
	defer cancel()
	if err := s.hub.store.UpsertIODisplayConfig(ctx, cfg); err != nil {
		return errResponse(req, err)
	}
	return ack(req.RequestID)
}

func configurationFrom(connectionID, name string, cfg protocol.Configuration) storage.SavedConfiguration {
	return storage.SavedConfiguration{
		ID:            uuid.NewString(),
		ConnectionID:  connectionID,
		Name:          name,
		Configuration: cfg,
	}
}
