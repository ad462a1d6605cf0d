// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"fmt"

	ebirddb "github.com/gnames/ebirddb/pkg"
	"github.com/gnames/ebirddb/pkg/config"
	"github.com/gnames/ebirddb/pkg/db"
	"github.com/gnames/ebirddb/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// manager implements the ebirddb.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) ebirddb.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema using
// GORM AutoMigrate, then wires up the foreign keys between
// the normalized tables.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	// Connect with GORM
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	// Run GORM AutoMigrate to create schema
	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	return m.createConstraints(ctx)
}

// fkDef describes one foreign key between normalized tables.
type fkDef struct {
	name, table, column, refTable, refColumn string
}

// foreignKeys lists the references between the normalized
// tables. GORM's AutoMigrate only creates the tables, so the
// keys are added explicitly afterwards.
var foreignKeys = []fkDef{
	{"fk_checklists_locality", "checklists", "locality_id",
		"localities", "locality_id"},
	{"fk_observations_checklist", "observations",
		"sampling_event_id", "checklists", "sampling_event_id"},
	{"fk_observations_species", "observations",
		"species_code", "species", "species_code"},
	{"fk_observations_sub_species", "observations",
		"sub_species_code", "species", "species_code"},
}

// createConstraints adds foreign keys between the normalized
// tables. Each key is dropped first so re-running create is
// safe.
func (m *manager) createConstraints(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	for _, fk := range foreignKeys {
		drop := fmt.Sprintf(
			"ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s",
			fk.table, fk.name,
		)
		if _, err := pool.Exec(ctx, drop); err != nil {
			return ConstraintError(fk.name, err)
		}

		add := fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT %s "+
				"FOREIGN KEY (%s) REFERENCES %s (%s)",
			fk.table, fk.name, fk.column,
			fk.refTable, fk.refColumn,
		)
		if _, err := pool.Exec(ctx, add); err != nil {
			return ConstraintError(fk.name, err)
		}
	}

	return nil
}
