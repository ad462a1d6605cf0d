package db

import (
	"context"

	"github.com/gnames/ebirddb/pkg/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines the interface for basic database management
// operations. It provides connection lifecycle management and exposes
// the pgxpool.Pool for the schema manager and the import stages to
// execute their specialized SQL internally.
//
// Design rationale:
// - Keeps the interface minimal to avoid bloat with mixed semantics
// - Pool() enables performance-critical features (CopyFrom bulk loads)
// - Schema creation is handled by GORM AutoMigrate via SchemaManager
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool. Import stages use it
	// for bulk appends (CopyFrom), derivation inserts and VACUUM.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public
	// schema. Used to prompt before dropping data and to detect a
	// database that was never initialized.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema.
	// Used during schema initialization when overwriting existing data.
	DropAllTables(ctx context.Context) error
}

// Pool is the narrow query surface the import stages depend on. It is
// satisfied by *pgxpool.Pool and by pgxmock pools, which keeps stage
// logic testable without a running PostgreSQL.
type Pool interface {
	Exec(
		ctx context.Context, sql string, args ...any,
	) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(
		ctx context.Context,
		tableName pgx.Identifier,
		columnNames []string,
		rowSrc pgx.CopyFromSource,
	) (int64, error)
}
