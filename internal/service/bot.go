package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/harborlabs/seabattle-backend/internal/entity"
)

var (
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrFleetWontFit     = errors.New("could not place fleet")
)

// classicFleetSizes is the standard fleet: one ship of each length.
var classicFleetSizes = []int{5, 4, 3, 3, 2}

const fleetPlacementAttempts = 1000

// BotService is the opaque move source for the automated opponent. It
// picks targets from the visibility-masked board only, so it plays by
// the same information rules as a human.
type BotService interface {
	ChooseTarget(board *entity.Board) (entity.Position, error)
	GenerateFleet() ([]entity.Position, error)
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// ChooseTarget picks a random cell that has not been struck yet.
func (that *botService) ChooseTarget(board *entity.Board) (entity.Position, error) {
	available := make([]entity.Position, 0, entity.BoardSize*entity.BoardSize)
	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			pos := entity.Position{Row: row, Col: col}
			if cell := board.At(pos); cell != entity.CellHit && cell != entity.CellMiss {
				available = append(available, pos)
			}
		}
	}

	if len(available) == 0 {
		return entity.Position{}, ErrNoAvailableMoves
	}

	return available[rand.Intn(len(available))], nil //nolint: gosec // it's ok
}

// GenerateFleet lays out the classic fleet at random, straight runs
// only, retrying on collision.
func (that *botService) GenerateFleet() ([]entity.Position, error) {
	board := entity.NewBoard()
	fleet := make([]entity.Position, 0, 17)

	for _, size := range classicFleetSizes {
		positions, err := placeShip(board, size)
		if err != nil {
			return nil, fmt.Errorf("failed to place ship of size %d: %w", size, err)
		}
		fleet = append(fleet, positions...)
	}

	return fleet, nil
}

func placeShip(board *entity.Board, size int) ([]entity.Position, error) {
	for attempt := 0; attempt < fleetPlacementAttempts; attempt++ {
		horizontal := rand.Intn(2) == 0 //nolint: gosec // it's ok

		rowSpan, colSpan := 1, size
		if !horizontal {
			rowSpan, colSpan = size, 1
		}

		row := rand.Intn(entity.BoardSize - rowSpan + 1) //nolint: gosec // it's ok
		col := rand.Intn(entity.BoardSize - colSpan + 1) //nolint: gosec // it's ok

		positions := make([]entity.Position, 0, size)
		for i := 0; i < size; i++ {
			pos := entity.Position{Row: row, Col: col}
			if horizontal {
				pos.Col += i
			} else {
				pos.Row += i
			}
			positions = append(positions, pos)
		}

		if overlaps(board, positions) {
			continue
		}

		for _, pos := range positions {
			if err := board.Place(pos); err != nil {
				return nil, fmt.Errorf("failed to mark cell: %w", err)
			}
		}

		return positions, nil
	}

	return nil, ErrFleetWontFit
}

func overlaps(board *entity.Board, positions []entity.Position) bool {
	for _, pos := range positions {
		if board.At(pos) != entity.CellEmpty {
			return true
		}
	}

	return false
}
