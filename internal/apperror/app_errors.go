package apperror

import "errors"

var (
	ErrOutOfBounds      = errors.New("position is out of bounds")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrAlreadyStruck    = errors.New("cell was already struck")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrBoardEmpty       = errors.New("board has no ships")
	ErrSessionFull      = errors.New("session already has two players")
)
