package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

var ErrNotConfigured = errors.New("database not configured")

// Connect opens the Postgres pool. An empty connStr is not an error condition the
// caller must treat as fatal: it reports ErrNotConfigured so the service can fall
// back to local mode.
func Connect(ctx context.Context, connStr string) error {
	if connStr == "" {
		return ErrNotConfigured
	}

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	return DB.PingContext(ctx)
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
