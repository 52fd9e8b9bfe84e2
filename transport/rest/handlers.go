package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/harborlabs/seabattle-backend/internal/apperror"
	"github.com/harborlabs/seabattle-backend/internal/entity"
	"github.com/harborlabs/seabattle-backend/internal/repository"
	"github.com/harborlabs/seabattle-backend/internal/service"
)

const defaultLeaderboardLimit = 10

type gamePlayService interface {
	CreateSession(ctx context.Context, playerID, sessionType string, fleet []entity.Position) (*service.Snapshot, error)
	JoinSession(ctx context.Context, sessionID, playerID string, fleet []entity.Position) (*service.Snapshot, error)
	Fire(ctx context.Context, playerID string, pos entity.Position) (*service.Snapshot, error)
	SnapshotFor(ctx context.Context, sessionID, playerID string) (*service.Snapshot, error)
}

type leaderboardRepo interface {
	Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error)
}

type Handlers struct {
	logger *slog.Logger

	gamePlayService gamePlayService
	leaderboardRepo leaderboardRepo
}

func NewHandlers(logger *slog.Logger, gamePlayService gamePlayService, leaderboardRepo leaderboardRepo) *Handlers {
	return &Handlers{
		logger:          logger,
		gamePlayService: gamePlayService,
		leaderboardRepo: leaderboardRepo,
	}
}

type createSessionRequest struct {
	PlayerID string            `json:"player_id"`
	Type     string            `json:"type"`
	Fleet    []entity.Position `json:"fleet"`
}

type joinSessionRequest struct {
	PlayerID string            `json:"player_id"`
	Fleet    []entity.Position `json:"fleet"`
}

type fireRequest struct {
	PlayerID string          `json:"player_id"`
	Position entity.Position `json:"position"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "CreateSession")

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, err := that.gamePlayService.CreateSession(r.Context(), req.PlayerID, req.Type, req.Fleet)
	if err != nil {
		log.Error("failed to create session", "error", err)
		that.writeFailure(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, snapshot)
}

func (that *Handlers) JoinSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "JoinSession")

	sessionID := mux.Vars(r)["id"]

	var req joinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, err := that.gamePlayService.JoinSession(r.Context(), sessionID, req.PlayerID, req.Fleet)
	if err != nil {
		log.Error("failed to join session", "sessionID", sessionID, "error", err)
		that.writeFailure(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Handlers) Fire(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Fire")

	var req fireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, err := that.gamePlayService.Fire(r.Context(), req.PlayerID, req.Position)
	if err != nil {
		log.Error("failed to fire", "playerID", req.PlayerID, "error", err)
		that.writeFailure(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetSession")

	sessionID := mux.Vars(r)["id"]
	playerID := r.URL.Query().Get("player_id")

	snapshot, err := that.gamePlayService.SnapshotFor(r.Context(), sessionID, playerID)
	if err != nil {
		log.Error("failed to get session", "sessionID", sessionID, "error", err)
		that.writeFailure(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Leaderboard")

	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			that.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := that.leaderboardRepo.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error("failed to get leaderboard", "error", err)
		that.writeError(w, http.StatusInternalServerError, "failed to get leaderboard")
		return
	}

	that.writeJSON(w, http.StatusOK, entries)
}

// writeFailure maps engine rejections to client error codes. Every
// engine error is a caller error; nothing here is retryable.
func (that *Handlers) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrPlayerNotFound):
		that.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrAlreadyStruck),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrGameIsNotStarted),
		errors.Is(err, apperror.ErrSessionFull):
		that.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperror.ErrOutOfBounds),
		errors.Is(err, apperror.ErrBoardEmpty),
		errors.Is(err, service.ErrPlayerNotInSession):
		that.writeError(w, http.StatusBadRequest, err.Error())
	default:
		that.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (that *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, errorResponse{Error: message})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
