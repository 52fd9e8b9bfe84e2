package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harborlabs/seabattle-backend/internal/battle"
	"github.com/harborlabs/seabattle-backend/internal/entity"
	"github.com/harborlabs/seabattle-backend/internal/service"
)

type gamePlayService interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)

	CreateSession(ctx context.Context, playerID, sessionType string, fleet []entity.Position) (*service.Snapshot, error)
	JoinSession(ctx context.Context, sessionID, playerID string, fleet []entity.Position) (*service.Snapshot, error)
	Fire(ctx context.Context, playerID string, pos entity.Position) (*service.Snapshot, error)
	SnapshotFor(ctx context.Context, sessionID, playerID string) (*service.Snapshot, error)

	SetTurnListener(listener service.TurnListener)
}

// connection wraps a client socket with a write lock; gorilla conns do
// not allow concurrent writers.
type connection struct {
	mu   sync.Mutex
	conn *websocket.Conn

	playerID string
}

func (that *connection) send(message Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

type Server struct {
	logger          *slog.Logger
	gamePlayService gamePlayService
	upgrader        websocket.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[string]*connection

	handlers map[string]func(ctx context.Context, message *Message, conn *connection) error
}

func New(logger *slog.Logger, gamePlayService gamePlayService) *Server {
	server := &Server{
		logger:          logger,
		gamePlayService: gamePlayService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		connections: make(map[string]*connection),
		handlers:    make(map[string]func(context.Context, *Message, *connection) error),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["session:new"] = server.handleNewSession
	server.handlers["session:join"] = server.handleJoinSession
	server.handlers["session:fire"] = server.handleFire

	gamePlayService.SetTurnListener(server.pushSessionUpdate)

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	serveMux := http.NewServeMux()
	serveMux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     serveMux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection - upgrades the connection and processes its messages.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	socket, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{conn: socket}

	defer func() {
		that.dropConnection(conn)

		if err = socket.Close(); err != nil {
			log.Error("failed to close connection", "error", err)
		}
	}()

	log.Info("WebSocket connection established")

	for {
		var message Message
		if err = socket.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err = that.sendErrorResponse(conn, message.Action, "unknown action"); err != nil {
				log.Error("failed to send error response", "error", err)
			}
			continue
		}

		if err = handler(ctx, &message, conn); err != nil {
			log.Error("error handling message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) registerConnection(playerID string, conn *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	conn.playerID = playerID
	that.connections[playerID] = conn
}

func (that *Server) dropConnection(conn *connection) {
	if conn.playerID == "" {
		return
	}

	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	if current, ok := that.connections[conn.playerID]; ok && current == conn {
		delete(that.connections, conn.playerID)
	}
}

func (that *Server) connectionFor(playerID string) (*connection, bool) {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	conn, ok := that.connections[playerID]

	return conn, ok
}

// pushSessionUpdate delivers an advanced session state to every human
// in it, each with their own masked view.
func (that *Server) pushSessionUpdate(session *entity.Session, outcome battle.Outcome) {
	log := that.logger.With("method", "pushSessionUpdate", "sessionID", session.ID)

	for _, player := range session.Players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.connectionFor(player.ID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		payload := Payload{
			Player:   player,
			Snapshot: service.NewSnapshot(session, player.Side, outcome),
		}

		if err := that.sendMessage(conn, "session:update", payload); err != nil {
			log.Error("failed to push session update", "playerID", player.ID, "error", err)
		}
	}
}

func (that *Server) sendMessage(conn *connection, action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return conn.send(Message{
		Action:  action,
		Payload: payloadJSON,
	})
}

func (that *Server) sendErrorResponse(conn *connection, action, message string) error {
	return that.sendMessage(conn, action, Payload{Error: message})
}
