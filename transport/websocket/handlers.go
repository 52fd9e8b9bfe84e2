package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	playerID := ""
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gamePlayService.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to get or create player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new player")
	}

	that.registerConnection(player.ID, conn)

	payloadResp := Payload{Player: player}

	if player.SessionID != "" {
		snapshot, err := that.gamePlayService.SnapshotFor(ctx, player.SessionID, player.ID)
		if err != nil {
			log.Error("failed to get session snapshot", "sessionID", player.SessionID, "error", err)
		} else {
			payloadResp.Snapshot = snapshot
		}
	}

	if err = that.sendMessage(conn, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewSession(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleNewSession")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Session == nil {
		log.Error("Session is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Session is required")
	}

	playerID := ""
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gamePlayService.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to get or create player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new player")
	}

	that.registerConnection(player.ID, conn)

	snapshot, err := that.gamePlayService.CreateSession(ctx, player.ID, payloadReq.Session.Type, payloadReq.Fleet)
	if err != nil {
		log.Error("failed to create session", "error", err)
		return that.sendErrorResponse(conn, msg.Action, fmt.Sprintf("failed to create session: %v", err))
	}

	log.Info("session created", "sessionID", snapshot.SessionID, "playerID", player.ID)

	payloadResp := Payload{
		Player:   player,
		Snapshot: snapshot,
	}

	return that.sendMessage(conn, msg.Action, payloadResp)
}

func (that *Server) handleJoinSession(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleJoinSession")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Session == nil || payloadReq.Session.ID == "" {
		log.Error("Session is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Session is required")
	}

	playerID := ""
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gamePlayService.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to get or create player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new player")
	}

	that.registerConnection(player.ID, conn)

	// both seats learn the game started through the turn listener push
	snapshot, err := that.gamePlayService.JoinSession(ctx, payloadReq.Session.ID, player.ID, payloadReq.Fleet)
	if err != nil {
		log.Error("failed to join session", "sessionID", payloadReq.Session.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, fmt.Sprintf("session %s: %v", payloadReq.Session.ID, err))
	}

	log.Info("player joined session", "sessionID", snapshot.SessionID, "playerID", player.ID)

	payloadResp := Payload{
		Player:   player,
		Snapshot: snapshot,
	}

	return that.sendMessage(conn, msg.Action, payloadResp)
}

func (that *Server) handleFire(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleFire")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	if payloadReq.Position == nil {
		log.Error("Position is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Position is required")
	}

	// the resolved state reaches both seats through the turn listener
	// push; only rejections are answered directly
	if _, err := that.gamePlayService.Fire(ctx, payloadReq.Player.ID, *payloadReq.Position); err != nil {
		log.Error("failed to fire", "playerID", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, fmt.Sprintf("failed to fire: %v", err))
	}

	return nil
}
