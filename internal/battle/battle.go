package battle

import (
	"fmt"

	"github.com/harborlabs/seabattle-backend/internal/apperror"
	"github.com/harborlabs/seabattle-backend/internal/entity"
)

// Outcome classifies one resolved shot.
type Outcome string

const (
	OutcomeMiss Outcome = "miss"
	OutcomeHit  Outcome = "hit"
	OutcomeSunk Outcome = "sunk"
)

// DefaultBotDelayMS is the documented "thinking" pause before an
// automated reply.
const DefaultBotDelayMS = 1000

// ResolveShot applies one shot to the board and classifies the result.
// It mutates the board only; turn bookkeeping is Fire's job so the two
// stay testable independently.
func ResolveShot(board *entity.Board, pos entity.Position) (Outcome, error) {
	cell, err := board.Strike(pos)
	if err != nil {
		return "", fmt.Errorf("strike: %w", err)
	}

	if cell == entity.CellMiss {
		return OutcomeMiss, nil
	}

	if board.IsShipSunk(pos) {
		return OutcomeSunk, nil
	}

	return OutcomeHit, nil
}

// Start moves a session from placement to active once both boards
// carry at least one ship, seeding the per-side ship counters from
// occupancy. The first turn belongs to the host.
func Start(session *entity.Session) error {
	if session.IsFinished() {
		return apperror.ErrGameFinished
	}

	counts := map[entity.Side]int{}
	for _, side := range []entity.Side{entity.SideHost, entity.SideGuest} {
		board := session.Board(side)
		if board == nil {
			return apperror.ErrBoardEmpty
		}

		count := board.ShipCount()
		if count == 0 {
			return apperror.ErrBoardEmpty
		}
		counts[side] = count
	}

	session.ShipsRemaining = counts
	session.Phase = entity.PhaseActive
	session.ActiveTurn = entity.SideHost

	return nil
}

// Fire resolves one shot by side against the other seat's board and
// advances the session state machine. The turn alternates strictly:
// every resolved shot flips it, except the one that finishes the game.
// A rejected shot leaves the session exactly as it was.
func Fire(session *entity.Session, side entity.Side, pos entity.Position) (Outcome, error) {
	if session.IsFinished() {
		return "", apperror.ErrGameFinished
	}

	if !session.IsActive() {
		return "", apperror.ErrGameIsNotStarted
	}

	if session.ActiveTurn != side {
		return "", apperror.ErrNotYourTurn
	}

	defender := side.Other()

	outcome, err := ResolveShot(session.Board(defender), pos)
	if err != nil {
		return "", err
	}

	if outcome == OutcomeSunk {
		session.ShipsRemaining[defender]--

		if session.ShipsRemaining[defender] == 0 {
			session.Phase = entity.PhaseFinished
			session.Winner = side
			session.ActiveTurn = ""
			session.Pending = nil

			return outcome, nil
		}
	}

	session.ActiveTurn = defender
	session.Pending = nil

	if botSide, ok := session.BotSide(); ok && botSide == defender {
		session.Pending = &entity.PendingTurn{Side: defender, DelayMS: DefaultBotDelayMS}
	}

	return outcome, nil
}
