package service

import (
	"github.com/harborlabs/seabattle-backend/internal/battle"
	"github.com/harborlabs/seabattle-backend/internal/entity"
)

// Snapshot is the render contract for one viewer: the opponent board
// is always visibility-masked, so unstruck ship cells never leave the
// engine for the non-owning side.
type Snapshot struct {
	SessionID     string         `json:"session_id"`
	Viewer        entity.Side    `json:"viewer"`
	Outcome       battle.Outcome `json:"outcome,omitempty"`
	OwnBoard      *entity.Board  `json:"own_board"`
	OpponentBoard *entity.Board  `json:"opponent_board"`
	ActiveTurn    entity.Side    `json:"active_turn,omitempty"`
	Phase         string         `json:"phase"`
	Winner        entity.Side    `json:"winner,omitempty"`
}

func NewSnapshot(session *entity.Session, viewer entity.Side, outcome battle.Outcome) *Snapshot {
	ownBoard := *session.Board(viewer)

	return &Snapshot{
		SessionID:     session.ID,
		Viewer:        viewer,
		Outcome:       outcome,
		OwnBoard:      &ownBoard,
		OpponentBoard: session.Board(viewer.Other()).Masked(),
		ActiveTurn:    session.ActiveTurn,
		Phase:         session.Phase,
		Winner:        session.Winner,
	}
}
