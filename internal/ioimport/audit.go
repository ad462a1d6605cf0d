package ioimport

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/ebirddb/pkg/db"
	"github.com/gnames/ebirddb/pkg/schema"
	"github.com/google/uuid"
)

// stageResult is what a completed stage reports for the audit row and
// the run summary. Skipped counts rows with unresolved species;
// filtered counts rows dropped by the region and date filters.
type stageResult struct {
	rowsAdded    int64
	rowsSkipped  int64
	rowsFiltered int64
}

// recordRun inserts an audit row for a completed stage. Audit rows
// are insert-only and never read back by the pipeline; a failure is
// logged and does not fail the stage.
func recordRun(
	ctx context.Context,
	pool db.Pool,
	stage, archivePath string,
	startedAt time.Time,
	res stageResult,
) {
	run := schema.ImportRun{}
	q := run.TableDDL()
	if _, err := pool.Exec(ctx, q); err != nil {
		slog.Error("Cannot ensure audit table",
			"error", AuditError(err))
		return
	}

	q = `
INSERT INTO import_runs
  (id, stage, archive, started_at, duration_ms,
   rows_added, rows_skipped, rows_filtered)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := pool.Exec(ctx, q,
		uuid.New().String(),
		stage,
		archivePath,
		startedAt,
		time.Since(startedAt).Milliseconds(),
		res.rowsAdded,
		res.rowsSkipped,
		res.rowsFiltered,
	)
	if err != nil {
		slog.Error("Cannot record stage run",
			"stage", stage, "error", AuditError(err))
	}
}
