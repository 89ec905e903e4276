package plugin

import (
	"context"
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/contactbook/internal/auth"
	"github.com/HerbHall/contactbook/internal/config"
	"github.com/HerbHall/contactbook/internal/endpoint"
)

// Migration is one versioned schema step of a module.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// Store is the relational store handed to modules.
type Store interface {
	// DB returns the underlying *sql.DB for direct queries.
	DB() *sql.DB

	// Tx executes fn within a transaction, committing on nil.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// Migrate applies the module's pending migrations in order.
	Migrate(ctx context.Context, module string, migrations []Migration) error
}

// Dependencies are the shared services a module receives at Init.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   Store
	Auth    *auth.Verifier
	Metrics prometheus.Registerer
}

// Plugin defines the interface that all ContactBook modules implement.
type Plugin interface {
	// Name returns the module's unique identifier (e.g., "contacts").
	Name() string

	// Version returns the module's semantic version.
	Version() string

	// Init wires the module to its dependencies.
	Init(ctx context.Context, deps Dependencies) error

	// Migrations returns the schema steps the module owns, in ascending
	// version order.
	Migrations() []Migration

	// Groups returns the route groups the module exposes.
	Groups() []endpoint.Group
}

// Seeder is implemented by modules that load demo data at startup.
type Seeder interface {
	Seed(ctx context.Context) error
}
