package entity

// BotID marks the automated opponent in single-player sessions.
const BotID = "bot"

type Player struct {
	ID        string `json:"id"`
	Side      Side   `json:"side,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

func (that *Player) IsBot() bool {
	return that.ID == BotID
}
