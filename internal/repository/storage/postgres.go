package storage

import (
	"context"
	"database/sql"
	"fmt"

	// import the Postgres driver to register it with the database/sql package.
	_ "github.com/lib/pq"
)

type PostgresStorage struct {
	Connection *sql.DB
}

func NewPostgresStorage(url string) (*PostgresStorage, error) {
	conn, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &PostgresStorage{Connection: conn}, nil
}

func (that *PostgresStorage) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS results (
		session_id TEXT PRIMARY KEY,
		winner_id TEXT NOT NULL,
		loser_id TEXT NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	)`

	if _, err := that.Connection.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

func (that *PostgresStorage) Close() error {
	return that.Connection.Close()
}
