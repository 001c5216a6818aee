// Package storage holds the Postgres-backed adapters for every storage port
// defined across pkg/api/business. Each repository_*.go file covers one
// entity family and is exercised by a single narrow port interface, never a
// god interface, matching the rest of the business layer's ports-and-adapters
// split.
package storage

import (
	"context"
	"database/sql"

	"github.com/oklog/ulid/v2"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// Repository is the shared handle every repository_*.go method hangs off of.
// Queries are hand-written SQL executed through database/sql rather than a
// generated query layer (see DESIGN.md).
type Repository struct {
	db *sql.DB
}

// newID generates a row ID for rows the caller doesn't supply one for
// (subscribed_channels, analyzed_videos, analysis_results). Everywhere else
// in this package the caller owns ID generation via an injected IDGenerator.
func newID() string {
	return ulid.Make().String()
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Open connects to Postgres via pgx's database/sql driver.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return nil, err
	}

	return db, nil
}
