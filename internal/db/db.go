package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Conn is the shared connection pool, initialized by Init or Open.
var Conn *pgxpool.Pool

// Open connects to Postgres, verifies the connection and ensures the
// schema exists.
func Open(databaseURL string) error {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return fmt.Errorf("ping: %w", err)
	}

	Conn = pool
	if err := ensureSchema(); err != nil {
		pool.Close()
		Conn = nil
		return err
	}
	return nil
}

// Init opens the database for the server process and exits on failure.
func Init(databaseURL string) {
	if err := Open(databaseURL); err != nil {
		log.Fatalf("Unable to set up database: %v", err)
	}
	log.Println("Connected to Postgres successfully")
}
