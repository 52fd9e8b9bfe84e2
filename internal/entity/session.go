package entity

// Side identifies one of the two seats in a session. The host is the
// creating player; in single-player sessions the bot takes the guest
// seat.
type Side string

const (
	SideHost  Side = "host"
	SideGuest Side = "guest"
)

func (that Side) Other() Side {
	if that == SideHost {
		return SideGuest
	}
	return SideHost
}

const (
	PhasePlacement = "placement"
	PhaseActive    = "active"
	PhaseFinished  = "finished"
)

const (
	PrivateType = "private"
	WithBotType = "bot"
)

// PendingTurn is a scheduling request for an automated reply: the
// session wants side to move after the delay. The engine owns no
// timer; the hosting service fulfils the request and clears it, or
// drops it if the session finished or was evicted first.
type PendingTurn struct {
	Side    Side `json:"side"`
	DelayMS int  `json:"delay_ms"`
}

// Session is the aggregate root of one game from placement through
// completion. It is mutated only by the battle package and holds no
// state past completion; the hosting service deletes it once the
// outcome is reported.
type Session struct {
	ID             string          `json:"id"`
	Type           string          `json:"type,omitempty"`
	Boards         map[Side]*Board `json:"boards"`
	ShipsRemaining map[Side]int    `json:"ships_remaining"`
	ActiveTurn     Side            `json:"active_turn,omitempty"`
	Phase          string          `json:"phase"`
	Winner         Side            `json:"winner,omitempty"`
	Players        []*Player       `json:"players,omitempty"`
	Pending        *PendingTurn    `json:"pending,omitempty"`
}

func NewSession(id, sessionType string) *Session {
	return &Session{
		ID:   id,
		Type: sessionType,
		Boards: map[Side]*Board{
			SideHost:  NewBoard(),
			SideGuest: NewBoard(),
		},
		ShipsRemaining: map[Side]int{},
		Phase:          PhasePlacement,
	}
}

func (that *Session) Board(side Side) *Board {
	return that.Boards[side]
}

func (that *Session) IsPlacement() bool {
	return that.Phase == PhasePlacement
}

func (that *Session) IsActive() bool {
	return that.Phase == PhaseActive
}

func (that *Session) IsFinished() bool {
	return that.Phase == PhaseFinished
}

func (that *Session) IsWithBot() bool {
	return that.Type == WithBotType
}

// BotSide returns the seat occupied by the bot, if any.
func (that *Session) BotSide() (Side, bool) {
	for _, player := range that.Players {
		if player.IsBot() {
			return player.Side, true
		}
	}

	return "", false
}

// SideOf returns the seat of the given player.
func (that *Session) SideOf(playerID string) (Side, bool) {
	for _, player := range that.Players {
		if player.ID == playerID {
			return player.Side, true
		}
	}

	return "", false
}
