package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const (
	connectAttempts = 5
	connectBackoff  = time.Second
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection, retrying the first ping while
// the server is still starting (Docker friendly)
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=compound sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := pingWithRetry(db.PingContext, connectAttempts, connectBackoff, time.Sleep); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db}, nil
}

// pingWithRetry pings until the server answers, sleeping attempt*backoff between tries
func pingWithRetry(ping func(context.Context) error, attempts int, backoff time.Duration, sleep func(time.Duration)) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = ping(ctx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt < attempts {
			sleep(time.Duration(attempt) * backoff)
		}
	}
	return fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
