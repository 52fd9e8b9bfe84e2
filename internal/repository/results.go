package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Result is one finished session's outcome, kept past session eviction.
type Result struct {
	SessionID  string    `json:"session_id"`
	WinnerID   string    `json:"winner_id"`
	LoserID    string    `json:"loser_id"`
	FinishedAt time.Time `json:"finished_at"`
}

type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Wins     int    `json:"wins"`
}

type ResultRepository interface {
	Record(ctx context.Context, result *Result) error
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type dbResult struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) ResultRepository {
	return &dbResult{
		db: db,
	}
}

func (that *dbResult) Record(ctx context.Context, result *Result) error {
	query := `INSERT INTO results (session_id, winner_id, loser_id, finished_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO NOTHING`

	_, err := that.db.ExecContext(ctx, query, result.SessionID, result.WinnerID, result.LoserID, result.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}

	return nil
}

func (that *dbResult) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	query := `SELECT winner_id, COUNT(*) AS wins
		FROM results
		GROUP BY winner_id
		ORDER BY wins DESC
		LIMIT $1`

	rows, err := that.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var entry LeaderboardEntry
		if err = rows.Scan(&entry.PlayerID, &entry.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard rows: %w", err)
	}

	return entries, nil
}
