package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	// When: create a new session
	session := NewSession("123", WithBotType)

	// Then: it starts in placement with two empty boards and no turn
	require.NotNil(t, session)
	assert.Equal(t, "123", session.ID)
	assert.True(t, session.IsPlacement())
	assert.True(t, session.IsWithBot())
	assert.Empty(t, session.ActiveTurn)
	assert.Equal(t, 0, session.Board(SideHost).RemainingShipCells())
	assert.Equal(t, 0, session.Board(SideGuest).RemainingShipCells())
}

func TestSide_Other(t *testing.T) {
	assert.Equal(t, SideGuest, SideHost.Other())
	assert.Equal(t, SideHost, SideGuest.Other())
}

func TestSession_BotSide(t *testing.T) {
	t.Run("Session with bot", func(t *testing.T) {
		session := NewSession("123", WithBotType)
		session.Players = []*Player{
			{ID: "human", Side: SideHost},
			{ID: BotID, Side: SideGuest},
		}

		side, ok := session.BotSide()

		require.True(t, ok)
		assert.Equal(t, SideGuest, side)
	})

	t.Run("Session without bot", func(t *testing.T) {
		session := NewSession("123", PrivateType)
		session.Players = []*Player{
			{ID: "one", Side: SideHost},
			{ID: "two", Side: SideGuest},
		}

		_, ok := session.BotSide()

		assert.False(t, ok)
	})
}

func TestSession_SideOf(t *testing.T) {
	session := NewSession("123", PrivateType)
	session.Players = []*Player{
		{ID: "one", Side: SideHost},
		{ID: "two", Side: SideGuest},
	}

	side, ok := session.SideOf("two")
	require.True(t, ok)
	assert.Equal(t, SideGuest, side)

	_, ok = session.SideOf("stranger")
	assert.False(t, ok)
}
