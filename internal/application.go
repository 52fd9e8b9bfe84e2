package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harborlabs/seabattle-backend/internal/config"
	"github.com/harborlabs/seabattle-backend/internal/repository"
	"github.com/harborlabs/seabattle-backend/internal/repository/storage"
	"github.com/harborlabs/seabattle-backend/internal/service"
	"github.com/harborlabs/seabattle-backend/transport/rest"
	"github.com/harborlabs/seabattle-backend/transport/websocket"
)

var (
	ErrAddrNotFound        = errors.New("redis address string is empty")
	ErrPostgresURLNotFound = errors.New("postgres url is empty")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	if conf.Postgres.URL == "" {
		return ErrPostgresURLNotFound
	}

	postgresStorage, err := storage.NewPostgresStorage(conf.Postgres.URL)
	if err != nil {
		return fmt.Errorf("could not connect to postgres storage: %w", err)
	}

	defer func() {
		if err = postgresStorage.Close(); err != nil {
			log.Error("could not close postgres storage", "error", err)
		}
	}()

	if err = postgresStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init postgres storage: %w", err)
	}

	playerRepo := repository.NewPlayerRepository(redisStorage.Connection)
	sessionRepo := repository.NewSessionRepository(redisStorage.Connection)
	resultRepo := repository.NewResultRepository(postgresStorage.Connection)

	playerService := service.NewPlayerService(playerRepo)
	sessionService := service.NewSessionService(sessionRepo)
	botService := service.NewBotService()

	botDelay := time.Duration(conf.BotDelayMS) * time.Millisecond
	gamePlayService := service.NewGamePlayService(logger, playerService, sessionService, botService, resultRepo, botDelay)
	defer gamePlayService.Stop()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(logger, conf.HTTPPort, gamePlayService, resultRepo); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gamePlayService)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
