// Package services provides repository interfaces and SQLite implementations
// for data access. This layer bridges the raw SQLite store with the HTTP
// handlers, translating query parameters into SQL and rows into models.
package services

import (
	"context"
	"database/sql"
	"errors"
)

// Sentinel errors returned by repositories.
var (
	// ErrNotFound is the outcome of a lookup or mutation whose target does
	// not exist. Callers check for it with errors.Is; it is not a fault.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPage is returned for a page number or page size below 1.
	ErrInvalidPage = errors.New("invalid page")
)

// Store is the part of the entity store repositories depend on.
// plugin.Store satisfies it.
type Store interface {
	DB() *sql.DB
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
