package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// CopyFrom bulk-appends rows into a table through the PostgreSQL COPY
// protocol. It is the fast path for large, unconstrained appends.
func CopyFrom(
	ctx context.Context,
	pool Pool,
	table string,
	columns []string,
	src pgx.CopyFromSource,
) (int64, error) {
	return pool.CopyFrom(ctx, pgx.Identifier{table}, columns, src)
}

// InsertBatch inserts rows with a single multi-row INSERT statement.
// When conflictKey is non-empty, rows whose key already exists are
// skipped instead of raising an error. Returns the number of rows
// actually inserted.
func InsertBatch(
	ctx context.Context,
	pool Pool,
	table string,
	columns []string,
	rows [][]any,
	conflictKey string,
) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	nCols := len(columns)
	placeholders := make([]string, len(rows))
	args := make([]any, 0, len(rows)*nCols)
	for i, row := range rows {
		nums := make([]string, nCols)
		for j := range nums {
			nums[j] = fmt.Sprintf("$%d", i*nCols+j+1)
		}
		placeholders[i] = "(" + strings.Join(nums, ", ") + ")"
		args = append(args, row...)
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
	if conflictKey != "" {
		q += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", conflictKey)
	}

	tag, err := pool.Exec(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
