package ioimport

import (
	"fmt"

	"github.com/gnames/ebirddb/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for imports attempted without a
// database connection.
func NotConnectedError() error {
	msg := "Import attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// StageError wraps a stage failure with the stage name, so partial
// runs report which stage to re-run after a fix.
func StageError(stage string, err error) error {
	msg := `Stage <em>%s</em> failed

Stages already committed keep their data. After fixing the cause,
re-run the import with <em>--stage %s</em>.`

	vars := []any{stage, stage}

	return &gn.Error{
		Code: errcode.ImportStageError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("stage %s: %w", stage, err),
	}
}

// StagingTableError creates an error for failures preparing or
// dropping a staging table.
func StagingTableError(table string, err error) error {
	msg := `Cannot prepare staging table <em>%s</em>

<em>Possible causes:</em>
  - User lacks CREATE or DROP privileges
  - Another import is running against the same database`

	vars := []any{table}

	return &gn.Error{
		Code: errcode.ImportStagingTableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("cannot prepare staging table %s: %w",
			table, err),
	}
}

// CopyError creates an error for failed COPY streams.
func CopyError(table string, err error) error {
	msg := `Bulk load into <em>%s</em> failed

<em>Possible causes:</em>
  - A record has a value the column type rejects
  - The connection to PostgreSQL was lost mid-stream`

	vars := []any{table}

	return &gn.Error{
		Code: errcode.ImportCopyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("copy into %s failed: %w", table, err),
	}
}

// InsertError creates an error for failed derivation or batch inserts.
func InsertError(table string, err error) error {
	msg := `Insert into <em>%s</em> failed`

	vars := []any{table}

	return &gn.Error{
		Code: errcode.ImportInsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("insert into %s failed: %w", table, err),
	}
}

// RowValueError creates an error for a source value that is present
// but cannot be converted to its column type. Blank values become
// NULL and never reach this error.
func RowValueError(column, value string, err error) error {
	msg := `Record field <em>%s</em> holds unusable value <em>%s</em>

The archive may be corrupted or from an unsupported export version.`

	vars := []any{column, value}

	return &gn.Error{
		Code: errcode.ImportRowValueError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("bad value %q in column %s: %w",
			value, column, err),
	}
}

// AuditError creates an error for a failed audit row insert. The
// caller logs it and continues; a missing audit row never fails a
// stage.
func AuditError(err error) error {
	msg := `Cannot record the stage run in <em>import_runs</em>`

	return &gn.Error{
		Code: errcode.ImportAuditError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot insert audit row: %w", err),
	}
}

// VacuumError creates an error for a failed VACUUM.
func VacuumError(table string, err error) error {
	msg := `VACUUM of <em>%s</em> failed`

	vars := []any{table}

	return &gn.Error{
		Code: errcode.ImportVacuumError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("vacuum %s failed: %w", table, err),
	}
}
