package websocket

import (
	"encoding/json"

	"github.com/harborlabs/seabattle-backend/internal/entity"
	"github.com/harborlabs/seabattle-backend/internal/service"
)

// Message is one WebSocket exchange: an action name and its payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type SessionRef struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
}

type Payload struct {
	Player   *entity.Player    `json:"player,omitempty"`
	Session  *SessionRef       `json:"session,omitempty"`
	Fleet    []entity.Position `json:"fleet,omitempty"`
	Position *entity.Position  `json:"position,omitempty"`
	Snapshot *service.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}
