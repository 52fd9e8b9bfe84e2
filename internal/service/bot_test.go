package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlabs/seabattle-backend/internal/entity"
)

func TestBotService_ChooseTarget(t *testing.T) {
	t.Run("Avoids struck cells", func(t *testing.T) {
		// Given: a board where everything except one cell was struck
		board := entity.NewBoard()
		free := entity.Position{Row: 4, Col: 7}
		for row := 0; row < entity.BoardSize; row++ {
			for col := 0; col < entity.BoardSize; col++ {
				pos := entity.Position{Row: row, Col: col}
				if pos == free {
					continue
				}
				_, err := board.Strike(pos)
				require.NoError(t, err)
			}
		}

		// When: the bot picks a target
		target, err := NewBotService().ChooseTarget(board)

		// Then: it picks the only unstruck cell
		require.NoError(t, err)
		assert.Equal(t, free, target)
	})

	t.Run("Error when every cell was struck", func(t *testing.T) {
		board := entity.NewBoard()
		for row := 0; row < entity.BoardSize; row++ {
			for col := 0; col < entity.BoardSize; col++ {
				_, err := board.Strike(entity.Position{Row: row, Col: col})
				require.NoError(t, err)
			}
		}

		_, err := NewBotService().ChooseTarget(board)

		require.ErrorIs(t, err, ErrNoAvailableMoves)
	})

	t.Run("Masked ship cells are fair targets", func(t *testing.T) {
		// Given: a masked board, ships hidden as empty
		board := entity.NewBoard()
		require.NoError(t, board.Place(entity.Position{Row: 0, Col: 0}))

		target, err := NewBotService().ChooseTarget(board.Masked())

		require.NoError(t, err)
		assert.True(t, target.InBounds())
	})
}

func TestBotService_GenerateFleet(t *testing.T) {
	bot := NewBotService()

	for i := 0; i < 20; i++ {
		// When: generating a fleet
		fleet, err := bot.GenerateFleet()
		require.NoError(t, err)

		// Then: the classic fleet occupies 17 distinct in-bounds cells
		require.Len(t, fleet, 17)

		board := entity.NewBoard()
		for _, pos := range fleet {
			require.True(t, pos.InBounds())
			require.NoError(t, board.Place(pos), "fleet cells must not overlap")
		}

		// Then: the cells form exactly five ships
		assert.Equal(t, 5, board.ShipCount())
	}
}
