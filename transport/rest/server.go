package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

func Start(logger *slog.Logger, port string, gamePlayService gamePlayService, leaderboardRepo leaderboardRepo) error {
	h := NewHandlers(logger, gamePlayService, leaderboardRepo)

	router := mux.NewRouter()
	router.HandleFunc("/ping", h.Ping).Methods(http.MethodGet)
	router.HandleFunc("/api/sessions", h.CreateSession).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions/{id}/join", h.JoinSession).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions/{id}/shots", h.Fire).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	router.HandleFunc("/api/leaderboard", h.Leaderboard).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
