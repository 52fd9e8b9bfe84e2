package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/harborlabs/seabattle-backend/internal/apperror"
	"github.com/harborlabs/seabattle-backend/internal/battle"
	"github.com/harborlabs/seabattle-backend/internal/entity"
	"github.com/harborlabs/seabattle-backend/internal/repository"
)

var ErrPlayerNotInSession = errors.New("player is not in this session")

// TurnListener is notified after every state-advancing event (a join
// that starts the game, a human shot, a scheduled bot shot), so the
// transport can push fresh snapshots to the humans. For a finishing
// shot the listener still sees the full session even though the store
// entry is already gone.
type TurnListener func(session *entity.Session, outcome battle.Outcome)

type GamePlayService interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)

	CreateSession(ctx context.Context, playerID, sessionType string, fleet []entity.Position) (*Snapshot, error)
	JoinSession(ctx context.Context, sessionID, playerID string, fleet []entity.Position) (*Snapshot, error)
	Fire(ctx context.Context, playerID string, pos entity.Position) (*Snapshot, error)
	SnapshotFor(ctx context.Context, sessionID, playerID string) (*Snapshot, error)
	CleanupSession(ctx context.Context, session *entity.Session)

	SetTurnListener(listener TurnListener)
	Stop()
}

type resultRepo interface {
	Record(ctx context.Context, result *repository.Result) error
}

type gamePlayService struct {
	logger *slog.Logger

	playerService  PlayerService
	sessionService SessionService
	botService     BotService
	resultRepo     resultRepo
	scheduler      *Scheduler

	// botDelay overrides the engine's pending delay when non-zero.
	botDelay time.Duration

	mu     sync.Mutex
	onTurn TurnListener
}

func NewGamePlayService(
	logger *slog.Logger,
	playerService PlayerService,
	sessionService SessionService,
	botService BotService,
	resultRepo resultRepo,
	botDelay time.Duration,
) GamePlayService {
	return &gamePlayService{
		logger:         logger,
		playerService:  playerService,
		sessionService: sessionService,
		botService:     botService,
		resultRepo:     resultRepo,
		scheduler:      NewScheduler(),
		botDelay:       botDelay,
	}
}

func (that *gamePlayService) SetTurnListener(listener TurnListener) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onTurn = listener
}

func (that *gamePlayService) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerService.GetOrCreatePlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create player: %w", err)
	}

	return player, nil
}

func (that *gamePlayService) Stop() {
	that.scheduler.Stop()
}

// CreateSession opens a session with the creator on the host seat and
// their fleet placed. Single-player sessions also seat the bot with a
// generated fleet and go active immediately; two-player sessions stay
// in placement until the guest joins.
func (that *gamePlayService) CreateSession(ctx context.Context, playerID, sessionType string, fleet []entity.Position) (*Snapshot, error) {
	player, err := that.playerService.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create player: %w", err)
	}

	session, err := that.sessionService.CreateSession(ctx, sessionType)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err = placeFleet(session.Board(entity.SideHost), fleet); err != nil {
		return nil, err
	}

	player.Side = entity.SideHost
	player.SessionID = session.ID
	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	session.Players = []*entity.Player{player}

	if session.IsWithBot() {
		if err = that.seatBot(session); err != nil {
			return nil, err
		}

		if err = battle.Start(session); err != nil {
			return nil, fmt.Errorf("failed to start session: %w", err)
		}
	}

	if err = that.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return NewSnapshot(session, entity.SideHost, ""), nil
}

// JoinSession seats a second human on the guest seat, places their
// fleet and starts the game.
func (that *gamePlayService) JoinSession(ctx context.Context, sessionID, playerID string, fleet []entity.Position) (*Snapshot, error) {
	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	if len(session.Players) >= 2 {
		return nil, fmt.Errorf("%w: session id %s", apperror.ErrSessionFull, sessionID)
	}

	player, err := that.playerService.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create player: %w", err)
	}

	if err = placeFleet(session.Board(entity.SideGuest), fleet); err != nil {
		return nil, err
	}

	player.Side = entity.SideGuest
	player.SessionID = session.ID
	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	session.Players = append(session.Players, player)

	if err = battle.Start(session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	if err = that.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	that.notifyTurn(session, "")

	return NewSnapshot(session, entity.SideGuest, ""), nil
}

// Fire resolves one human shot and persists the advanced session. On
// completion the result is recorded and the session evicted; otherwise
// a pending bot reply, if any, is handed to the scheduler.
func (that *gamePlayService) Fire(ctx context.Context, playerID string, pos entity.Position) (*Snapshot, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	session, err := that.sessionService.GetSessionByID(ctx, player.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	side, ok := session.SideOf(player.ID)
	if !ok {
		return nil, fmt.Errorf("%w: player id %s", ErrPlayerNotInSession, player.ID)
	}

	outcome, err := battle.Fire(session, side, pos)
	if err != nil {
		return nil, fmt.Errorf("failed to fire: %w", err)
	}

	if err = that.persistAfterShot(ctx, session); err != nil {
		return nil, err
	}

	that.notifyTurn(session, outcome)

	return NewSnapshot(session, side, outcome), nil
}

func (that *gamePlayService) SnapshotFor(ctx context.Context, sessionID, playerID string) (*Snapshot, error) {
	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	side, ok := session.SideOf(playerID)
	if !ok {
		return nil, fmt.Errorf("%w: player id %s", ErrPlayerNotInSession, playerID)
	}

	return NewSnapshot(session, side, ""), nil
}

// CleanupSession evicts a session and detaches its human players.
func (that *gamePlayService) CleanupSession(ctx context.Context, session *entity.Session) {
	log := that.logger.With("method", "CleanupSession", "sessionID", session.ID)

	that.scheduler.Cancel(session.ID)

	if err := that.sessionService.DeleteSession(ctx, session.ID); err != nil {
		log.Error("failed to delete session", "error", err)
	}

	for _, player := range session.Players {
		if player.IsBot() {
			continue
		}

		player.SessionID = ""
		player.Side = ""
		if err := that.playerService.UpdatePlayer(ctx, player); err != nil {
			log.Error("failed to detach player", "playerID", player.ID, "error", err)
		}
	}
}

func (that *gamePlayService) seatBot(session *entity.Session) error {
	fleet, err := that.botService.GenerateFleet()
	if err != nil {
		return fmt.Errorf("failed to generate bot fleet: %w", err)
	}

	if err = placeFleet(session.Board(entity.SideGuest), fleet); err != nil {
		return err
	}

	session.Players = append(session.Players, &entity.Player{
		ID:        entity.BotID,
		Side:      entity.SideGuest,
		SessionID: session.ID,
	})

	return nil
}

func (that *gamePlayService) persistAfterShot(ctx context.Context, session *entity.Session) error {
	if session.IsFinished() {
		that.recordResult(ctx, session)
		that.CleanupSession(ctx, session)

		return nil
	}

	if err := that.sessionService.UpdateSession(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if session.Pending != nil {
		that.scheduleBotTurn(session)
	}

	return nil
}

func (that *gamePlayService) scheduleBotTurn(session *entity.Session) {
	delay := time.Duration(session.Pending.DelayMS) * time.Millisecond
	if that.botDelay > 0 {
		delay = that.botDelay
	}

	sessionID := session.ID
	that.scheduler.Schedule(sessionID, delay, func() {
		that.runBotTurn(context.Background(), sessionID)
	})
}

// runBotTurn fulfils a pending automated turn. The session is reloaded
// first: if it finished or was evicted while the timer ran, the move
// is dropped.
func (that *gamePlayService) runBotTurn(ctx context.Context, sessionID string) {
	log := that.logger.With("method", "runBotTurn", "sessionID", sessionID)

	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		log.Info("dropping scheduled bot turn", "error", err)
		return
	}

	if !session.IsActive() || session.Pending == nil {
		return
	}

	botSide := session.Pending.Side

	target, err := that.botService.ChooseTarget(session.Board(botSide.Other()).Masked())
	if err != nil {
		log.Error("bot has no move", "error", err)
		return
	}

	outcome, err := battle.Fire(session, botSide, target)
	if err != nil {
		log.Error("bot failed to fire", "error", err)
		return
	}

	if err = that.persistAfterShot(ctx, session); err != nil {
		log.Error("failed to persist bot turn", "error", err)
		return
	}

	that.notifyTurn(session, outcome)
}

func (that *gamePlayService) notifyTurn(session *entity.Session, outcome battle.Outcome) {
	that.mu.Lock()
	listener := that.onTurn
	that.mu.Unlock()

	if listener != nil {
		listener(session, outcome)
	}
}

func (that *gamePlayService) recordResult(ctx context.Context, session *entity.Session) {
	log := that.logger.With("method", "recordResult", "sessionID", session.ID)

	var winnerID, loserID string
	for _, player := range session.Players {
		if player.Side == session.Winner {
			winnerID = player.ID
		} else {
			loserID = player.ID
		}
	}

	result := &repository.Result{
		SessionID:  session.ID,
		WinnerID:   winnerID,
		LoserID:    loserID,
		FinishedAt: time.Now().UTC(),
	}

	if err := that.resultRepo.Record(ctx, result); err != nil {
		log.Error("failed to record result", "error", err)
	}
}

func placeFleet(board *entity.Board, fleet []entity.Position) error {
	for _, pos := range fleet {
		if err := board.Place(pos); err != nil {
			return fmt.Errorf("failed to place fleet cell (%d,%d): %w", pos.Row, pos.Col, err)
		}
	}

	return nil
}
