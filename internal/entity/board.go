package entity

import (
	"github.com/harborlabs/seabattle-backend/internal/apperror"
)

// BoardSize is the side length of the square grid.
const BoardSize = 10

// Cell is the state of one grid position. Transitions are monotonic:
// empty goes to miss, ship goes to hit, and a struck cell never reverts.
type Cell string

const (
	CellEmpty Cell = "empty"
	CellShip  Cell = "ship"
	CellHit   Cell = "hit"
	CellMiss  Cell = "miss"
)

// Position addresses one cell, rows and columns 0..9.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Position) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

// neighbors returns the in-bounds 4-directional neighbors. Diagonal
// cells never belong to the same ship.
func (that Position) neighbors() []Position {
	candidates := [4]Position{
		{Row: that.Row - 1, Col: that.Col},
		{Row: that.Row + 1, Col: that.Col},
		{Row: that.Row, Col: that.Col - 1},
		{Row: that.Row, Col: that.Col + 1},
	}

	result := make([]Position, 0, 4)
	for _, pos := range candidates {
		if pos.InBounds() {
			result = append(result, pos)
		}
	}

	return result
}

// Board holds the per-cell state of one side's grid. Ships are not
// stored as separate entities; a ship is a maximal 4-connected run of
// ship/hit cells, derived from occupancy on demand.
type Board [BoardSize][BoardSize]Cell

func NewBoard() *Board {
	board := &Board{}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			board[row][col] = CellEmpty
		}
	}

	return board
}

func (that *Board) At(pos Position) Cell {
	return that[pos.Row][pos.Col]
}

// Place marks a position as occupied by a ship. Overlap and bounds are
// the only checks here; fleet-composition rules belong to the caller.
func (that *Board) Place(pos Position) error {
	if !pos.InBounds() {
		return apperror.ErrOutOfBounds
	}

	if that[pos.Row][pos.Col] != CellEmpty {
		return apperror.ErrCellOccupied
	}

	that[pos.Row][pos.Col] = CellShip

	return nil
}

// Strike applies one shot and returns the resulting cell state. A
// duplicate shot is rejected, not silently ignored, so the caller sees
// duplicate-shot bugs instead of masking them. Nothing is mutated on
// any error path.
func (that *Board) Strike(pos Position) (Cell, error) {
	if !pos.InBounds() {
		return "", apperror.ErrOutOfBounds
	}

	switch that[pos.Row][pos.Col] {
	case CellHit, CellMiss:
		return "", apperror.ErrAlreadyStruck
	case CellShip:
		that[pos.Row][pos.Col] = CellHit
		return CellHit, nil
	default:
		that[pos.Row][pos.Col] = CellMiss
		return CellMiss, nil
	}
}

// IsShipSunk reports whether the ship containing pos has no unstruck
// cell left. It walks the 4-connected component of ship/hit cells with
// an explicit worklist; the visited set is local to the call and the
// board is never mutated.
func (that *Board) IsShipSunk(pos Position) bool {
	if !pos.InBounds() {
		return false
	}

	var visited [BoardSize * BoardSize]bool
	stack := []Position{pos}
	visited[pos.Row*BoardSize+pos.Col] = true

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch that[current.Row][current.Col] {
		case CellShip:
			return false
		case CellHit:
		default:
			continue
		}

		for _, next := range current.neighbors() {
			index := next.Row*BoardSize + next.Col
			if visited[index] {
				continue
			}
			visited[index] = true

			if cell := that[next.Row][next.Col]; cell == CellShip || cell == CellHit {
				stack = append(stack, next)
			}
		}
	}

	return true
}

// ShipCount returns the number of 4-connected components of ship/hit
// cells. It seeds the per-side remaining-ship counter at session start.
func (that *Board) ShipCount() int {
	var visited [BoardSize * BoardSize]bool
	count := 0

	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if visited[row*BoardSize+col] {
				continue
			}
			if cell := that[row][col]; cell != CellShip && cell != CellHit {
				continue
			}

			count++

			stack := []Position{{Row: row, Col: col}}
			visited[row*BoardSize+col] = true
			for len(stack) > 0 {
				current := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				for _, next := range current.neighbors() {
					index := next.Row*BoardSize + next.Col
					if visited[index] {
						continue
					}
					if cell := that[next.Row][next.Col]; cell != CellShip && cell != CellHit {
						continue
					}
					visited[index] = true
					stack = append(stack, next)
				}
			}
		}
	}

	return count
}

// RemainingShipCells counts cells still occupied and unstruck. It is a
// diagnostic; remaining-ship bookkeeping is kept by the session.
func (that *Board) RemainingShipCells() int {
	count := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if that[row][col] == CellShip {
				count++
			}
		}
	}

	return count
}

// Masked returns a copy safe to show the opposing side: unstruck ship
// cells render as empty, hits and misses stay visible.
func (that *Board) Masked() *Board {
	masked := *that
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if masked[row][col] == CellShip {
				masked[row][col] = CellEmpty
			}
		}
	}

	return &masked
}
