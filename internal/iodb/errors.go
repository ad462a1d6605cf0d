package iodb

import (
	"fmt"

	"github.com/gnames/ebirddb/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError creates an error for a failed PostgreSQL
// connection attempt.
func ConnectionError(
	host string, port int, database, user string, err error,
) error {
	msg := `Could not connect to PostgreSQL

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify database <em>%s</em> exists and user <em>%s</em>
     has access:
     <em>psql -U %s -l</em>
  3. Review settings in the config file or
     <em>EBIRDDB_DATABASE_*</em> environment variables`

	vars := []any{host, port, database, user, user}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("cannot connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError creates an error for operations attempted
// before Connect.
func NotConnectedError() error {
	msg := `Database is not connected

<em>How to fix:</em>
  1. Call Connect before running database operations`

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("database not connected"),
	}
}

// EmptyDatabaseError creates an error for imports attempted
// against a database without a schema.
func EmptyDatabaseError(host, database string) error {
	msg := `Database <em>%s/%s</em> has no tables

<em>How to fix:</em>
  1. Run <em>ebirddb create</em> to initialize the schema
  2. Then re-run the import`

	vars := []any{host, database}

	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("database %s on %s has no tables",
			database, host),
	}
}

// TableCheckError creates an error for a failed check whether
// the database has any tables.
func TableCheckError(err error) error {
	msg := `Could not check for existing tables

<em>Possible causes:</em>
  - Connection was lost
  - User lacks access to information_schema`

	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot check for tables: %w", err),
	}
}

// TableExistsCheckError creates an error for a failed
// existence check of one table.
func TableExistsCheckError(tableName string, err error) error {
	msg := `Could not check if table <em>%s</em> exists

<em>Possible causes:</em>
  - Connection was lost
  - User lacks access to information_schema`

	vars := []any{tableName}

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("cannot check table %s: %w",
			tableName, err),
	}
}

// QueryTablesError creates an error for a failed listing of
// public schema tables.
func QueryTablesError(err error) error {
	msg := `Could not list tables in the public schema`

	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot query tables: %w", err),
	}
}

// ScanTableError creates an error for a failed scan of a
// table name row.
func ScanTableError(err error) error {
	msg := `Could not read table names from the database`

	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot scan table name: %w", err),
	}
}

// DropTableError creates an error for a failed DROP TABLE.
func DropTableError(tableName string, err error) error {
	msg := `Could not drop table <em>%s</em>

<em>Possible causes:</em>
  - User lacks DROP privileges
  - Another session holds a lock on the table`

	vars := []any{tableName}

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("cannot drop table %s: %w",
			tableName, err),
	}
}
