package ioimport

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gnames/ebirddb/pkg/db"
	"github.com/gnames/ebirddb/pkg/schema"
)

// deriveSQL builds the deduplicating insert from the staging table
// into a normalized table. DISTINCT ON keeps the first staged row per
// key; ON CONFLICT DO NOTHING keeps rows from earlier runs intact.
func deriveSQL(target string, key string, cols []string) string {
	list := strings.Join(cols, ", ")
	var b strings.Builder
	b.WriteString("INSERT INTO " + target + " (" + list + ")\n")
	b.WriteString("SELECT DISTINCT ON (" + key + ") " + list + "\n")
	b.WriteString("FROM " + schema.SamplingRow{}.TableName() + "\n")
	b.WriteString("WHERE " + key + " IS NOT NULL\n")
	b.WriteString("ON CONFLICT (" + key + ") DO NOTHING")
	return b.String()
}

// insertLocalities derives unique localities from the staged
// sampling rows.
func insertLocalities(
	ctx context.Context, pool db.Pool,
) (stageResult, error) {
	var res stageResult
	loc := schema.Locality{}

	if _, err := pool.Exec(ctx, loc.TableDDL()); err != nil {
		return res, StagingTableError(loc.TableName(), err)
	}

	q := deriveSQL(loc.TableName(), "locality_id", loc.Columns())
	tag, err := pool.Exec(ctx, q)
	if err != nil {
		return res, InsertError(loc.TableName(), err)
	}
	res.rowsAdded = tag.RowsAffected()

	slog.Info("Derived localities", "rows", res.rowsAdded)
	return res, vacuumTable(ctx, pool, loc.TableName())
}

// insertChecklists derives unique checklists from the staged
// sampling rows.
func insertChecklists(
	ctx context.Context, pool db.Pool,
) (stageResult, error) {
	var res stageResult
	chk := schema.Checklist{}

	if _, err := pool.Exec(ctx, chk.TableDDL()); err != nil {
		return res, StagingTableError(chk.TableName(), err)
	}

	q := deriveSQL(chk.TableName(), "sampling_event_id", chk.Columns())
	tag, err := pool.Exec(ctx, q)
	if err != nil {
		return res, InsertError(chk.TableName(), err)
	}
	res.rowsAdded = tag.RowsAffected()

	slog.Info("Derived checklists", "rows", res.rowsAdded)
	return res, vacuumTable(ctx, pool, chk.TableName())
}

// dropSampling discards the staging table after both derivations ran.
func dropSampling(
	ctx context.Context, pool db.Pool,
) (stageResult, error) {
	var res stageResult
	table := schema.SamplingRow{}.TableName()

	q := "DROP TABLE IF EXISTS " + table
	if _, err := pool.Exec(ctx, q); err != nil {
		return res, StagingTableError(table, err)
	}

	slog.Info("Dropped staging table", "table", table)
	return res, nil
}
