package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlabs/seabattle-backend/internal/apperror"
	"github.com/harborlabs/seabattle-backend/internal/entity"
)

func placeAll(t *testing.T, board *entity.Board, positions ...entity.Position) {
	t.Helper()

	for _, pos := range positions {
		require.NoError(t, board.Place(pos))
	}
}

// newActiveSession builds a started two-player session with the given fleets.
func newActiveSession(t *testing.T, hostFleet, guestFleet []entity.Position) *entity.Session {
	t.Helper()

	session := entity.NewSession("123", entity.PrivateType)
	placeAll(t, session.Board(entity.SideHost), hostFleet...)
	placeAll(t, session.Board(entity.SideGuest), guestFleet...)
	require.NoError(t, Start(session))

	return session
}

func TestStart(t *testing.T) {
	t.Run("Start", func(t *testing.T) {
		// Given: both boards carry one ship
		session := entity.NewSession("123", entity.PrivateType)
		placeAll(t, session.Board(entity.SideHost), entity.Position{Row: 0, Col: 0})
		placeAll(t, session.Board(entity.SideGuest), entity.Position{Row: 9, Col: 9})

		// When: starting the session
		err := Start(session)

		// Then: the session is active, ship counters seeded, host to move
		require.NoError(t, err)
		assert.True(t, session.IsActive())
		assert.Equal(t, entity.SideHost, session.ActiveTurn)
		assert.Equal(t, 1, session.ShipsRemaining[entity.SideHost])
		assert.Equal(t, 1, session.ShipsRemaining[entity.SideGuest])
	})

	t.Run("Error on empty board", func(t *testing.T) {
		// Given: the guest never placed a ship
		session := entity.NewSession("123", entity.PrivateType)
		placeAll(t, session.Board(entity.SideHost), entity.Position{Row: 0, Col: 0})

		// When: starting the session
		err := Start(session)

		// Then: ErrBoardEmpty should be returned and the phase unchanged
		require.ErrorIs(t, err, apperror.ErrBoardEmpty)
		assert.True(t, session.IsPlacement())
	})

	t.Run("Counts ships not cells", func(t *testing.T) {
		// Given: a two-cell ship and a one-cell ship per side
		session := entity.NewSession("123", entity.PrivateType)
		placeAll(t, session.Board(entity.SideHost),
			entity.Position{Row: 0, Col: 0}, entity.Position{Row: 0, Col: 1},
			entity.Position{Row: 5, Col: 5})
		placeAll(t, session.Board(entity.SideGuest), entity.Position{Row: 9, Col: 9})

		require.NoError(t, Start(session))

		assert.Equal(t, 2, session.ShipsRemaining[entity.SideHost])
		assert.Equal(t, 1, session.ShipsRemaining[entity.SideGuest])
	})
}

func TestFire(t *testing.T) {
	t.Run("Turn alternates strictly on miss and on hit", func(t *testing.T) {
		// Given: a session with a two-cell guest ship
		session := newActiveSession(t,
			[]entity.Position{{Row: 0, Col: 0}},
			[]entity.Position{{Row: 5, Col: 5}, {Row: 5, Col: 6}},
		)

		// When: the host misses
		outcome, err := Fire(session, entity.SideHost, entity.Position{Row: 9, Col: 9})
		require.NoError(t, err)
		assert.Equal(t, OutcomeMiss, outcome)

		// Then: the turn flips to the guest
		assert.Equal(t, entity.SideGuest, session.ActiveTurn)

		// When: the guest misses back and the host then hits
		_, err = Fire(session, entity.SideGuest, entity.Position{Row: 9, Col: 9})
		require.NoError(t, err)
		outcome, err = Fire(session, entity.SideHost, entity.Position{Row: 5, Col: 5})
		require.NoError(t, err)
		assert.Equal(t, OutcomeHit, outcome)

		// Then: a hit flips the turn as well, no shoot-again rule
		assert.Equal(t, entity.SideGuest, session.ActiveTurn)
	})

	t.Run("Error on out of turn leaves session unchanged", func(t *testing.T) {
		session := newActiveSession(t,
			[]entity.Position{{Row: 0, Col: 0}},
			[]entity.Position{{Row: 5, Col: 5}},
		)

		// When: the guest shoots while it is the host's turn
		_, err := Fire(session, entity.SideGuest, entity.Position{Row: 0, Col: 0})

		// Then: ErrNotYourTurn and no board mutation
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.SideHost, session.ActiveTurn)
		assert.Equal(t, entity.CellShip, session.Board(entity.SideHost).At(entity.Position{Row: 0, Col: 0}))
	})

	t.Run("Error on duplicate shot leaves turn unchanged", func(t *testing.T) {
		session := newActiveSession(t,
			[]entity.Position{{Row: 0, Col: 0}},
			[]entity.Position{{Row: 5, Col: 5}},
		)

		_, err := Fire(session, entity.SideHost, entity.Position{Row: 9, Col: 9})
		require.NoError(t, err)
		_, err = Fire(session, entity.SideGuest, entity.Position{Row: 9, Col: 9})
		require.NoError(t, err)

		// When: the host repeats their earlier shot
		_, err = Fire(session, entity.SideHost, entity.Position{Row: 9, Col: 9})

		// Then: the duplicate is rejected and the host keeps the turn
		require.ErrorIs(t, err, apperror.ErrAlreadyStruck)
		assert.Equal(t, entity.SideHost, session.ActiveTurn)
	})

	t.Run("Error when not started", func(t *testing.T) {
		session := entity.NewSession("123", entity.PrivateType)

		_, err := Fire(session, entity.SideHost, entity.Position{Row: 0, Col: 0})

		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Sinking the last ship finishes the game", func(t *testing.T) {
		// Given: one-cell fleets at (0,0) for both sides
		session := newActiveSession(t,
			[]entity.Position{{Row: 0, Col: 0}},
			[]entity.Position{{Row: 0, Col: 0}},
		)

		// When: the host strikes the guest's only ship cell
		outcome, err := Fire(session, entity.SideHost, entity.Position{Row: 0, Col: 0})

		// Then: hit-and-sunk, guest has no ships left, host wins
		require.NoError(t, err)
		assert.Equal(t, OutcomeSunk, outcome)
		assert.Equal(t, 0, session.ShipsRemaining[entity.SideGuest])
		assert.True(t, session.IsFinished())
		assert.Equal(t, entity.SideHost, session.Winner)
		assert.Empty(t, session.ActiveTurn)
	})

	t.Run("Error after the game finished", func(t *testing.T) {
		session := newActiveSession(t,
			[]entity.Position{{Row: 0, Col: 0}},
			[]entity.Position{{Row: 0, Col: 0}},
		)

		_, err := Fire(session, entity.SideHost, entity.Position{Row: 0, Col: 0})
		require.NoError(t, err)

		// When: anyone shoots after completion
		_, err = Fire(session, entity.SideGuest, entity.Position{Row: 5, Col: 5})

		// Then: ErrGameFinished should be returned
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Ships remaining decrements once per sunk ship", func(t *testing.T) {
		// Given: guest fleet of a three-cell ship and a one-cell ship
		session := newActiveSession(t,
			[]entity.Position{{Row: 0, Col: 0}},
			[]entity.Position{{Row: 2, Col: 3}, {Row: 2, Col: 4}, {Row: 2, Col: 5}, {Row: 7, Col: 7}},
		)
		require.Equal(t, 2, session.ShipsRemaining[entity.SideGuest])

		shots := []entity.Position{{Row: 2, Col: 3}, {Row: 2, Col: 4}, {Row: 2, Col: 5}}
		guestReply := []entity.Position{{Row: 8, Col: 0}, {Row: 8, Col: 1}, {Row: 8, Col: 2}}

		// When: the host works through the three-cell ship, guest missing in between
		for i, shot := range shots {
			outcome, err := Fire(session, entity.SideHost, shot)
			require.NoError(t, err)

			if i < len(shots)-1 {
				// Then: partial hits never touch the counter
				assert.Equal(t, OutcomeHit, outcome)
				assert.Equal(t, 2, session.ShipsRemaining[entity.SideGuest])
			} else {
				// Then: the final cell sinks it and decrements exactly once
				assert.Equal(t, OutcomeSunk, outcome)
				assert.Equal(t, 1, session.ShipsRemaining[entity.SideGuest])
			}

			_, err = Fire(session, entity.SideGuest, guestReply[i])
			require.NoError(t, err)
		}
	})

	t.Run("Pending bot turn is set when the turn passes to the bot", func(t *testing.T) {
		// Given: an active session with the bot on the guest seat
		session := entity.NewSession("123", entity.WithBotType)
		placeAll(t, session.Board(entity.SideHost), entity.Position{Row: 0, Col: 0})
		placeAll(t, session.Board(entity.SideGuest), entity.Position{Row: 5, Col: 5}, entity.Position{Row: 5, Col: 6})
		session.Players = []*entity.Player{
			{ID: "human", Side: entity.SideHost, SessionID: "123"},
			{ID: entity.BotID, Side: entity.SideGuest, SessionID: "123"},
		}
		require.NoError(t, Start(session))

		// When: the human shoots
		_, err := Fire(session, entity.SideHost, entity.Position{Row: 9, Col: 9})
		require.NoError(t, err)

		// Then: a scheduling request for the bot side appears
		require.NotNil(t, session.Pending)
		assert.Equal(t, entity.SideGuest, session.Pending.Side)
		assert.Equal(t, DefaultBotDelayMS, session.Pending.DelayMS)

		// When: the bot replies
		_, err = Fire(session, entity.SideGuest, entity.Position{Row: 9, Col: 9})
		require.NoError(t, err)

		// Then: the request is cleared while the human thinks
		assert.Nil(t, session.Pending)
	})

	t.Run("Finishing shot clears any pending bot turn", func(t *testing.T) {
		session := entity.NewSession("123", entity.WithBotType)
		placeAll(t, session.Board(entity.SideHost), entity.Position{Row: 0, Col: 0})
		placeAll(t, session.Board(entity.SideGuest), entity.Position{Row: 5, Col: 5})
		session.Players = []*entity.Player{
			{ID: "human", Side: entity.SideHost, SessionID: "123"},
			{ID: entity.BotID, Side: entity.SideGuest, SessionID: "123"},
		}
		require.NoError(t, Start(session))

		// When: the human sinks the bot's only ship
		outcome, err := Fire(session, entity.SideHost, entity.Position{Row: 5, Col: 5})

		// Then: the game is over and no bot turn is scheduled
		require.NoError(t, err)
		assert.Equal(t, OutcomeSunk, outcome)
		assert.True(t, session.IsFinished())
		assert.Nil(t, session.Pending)
	})
}

func TestResolveShot(t *testing.T) {
	t.Run("Classifies miss, hit and sunk", func(t *testing.T) {
		// Given: a two-cell ship
		board := entity.NewBoard()
		require.NoError(t, board.Place(entity.Position{Row: 3, Col: 3}))
		require.NoError(t, board.Place(entity.Position{Row: 4, Col: 3}))

		outcome, err := ResolveShot(board, entity.Position{Row: 0, Col: 0})
		require.NoError(t, err)
		assert.Equal(t, OutcomeMiss, outcome)

		outcome, err = ResolveShot(board, entity.Position{Row: 3, Col: 3})
		require.NoError(t, err)
		assert.Equal(t, OutcomeHit, outcome)

		outcome, err = ResolveShot(board, entity.Position{Row: 4, Col: 3})
		require.NoError(t, err)
		assert.Equal(t, OutcomeSunk, outcome)
	})

	t.Run("Propagates strike errors", func(t *testing.T) {
		board := entity.NewBoard()

		_, err := ResolveShot(board, entity.Position{Row: 0, Col: 0})
		require.NoError(t, err)

		_, err = ResolveShot(board, entity.Position{Row: 0, Col: 0})
		require.ErrorIs(t, err, apperror.ErrAlreadyStruck)

		_, err = ResolveShot(board, entity.Position{Row: 0, Col: 10})
		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
	})
}
