package ioimport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/ebirddb/pkg/db"
)

// vacuumTable reclaims space after a bulk write. Streaming stages
// leave dead tuples behind, so each stage finishes with a VACUUM of
// the tables it touched.
func vacuumTable(ctx context.Context, pool db.Pool, table string) error {
	slog.Info("Vacuuming table", "table", table)
	q := fmt.Sprintf("VACUUM %s", table)
	if _, err := pool.Exec(ctx, q); err != nil {
		return VacuumError(table, err)
	}
	return nil
}
