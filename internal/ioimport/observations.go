package ioimport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/ebirddb/internal/ioarchive"
	"github.com/gnames/ebirddb/pkg/archive"
	"github.com/gnames/ebirddb/pkg/db"
	"github.com/gnames/ebirddb/pkg/schema"
	"golang.org/x/sync/errgroup"
)

// tmpObservationsTable stages filtered observation rows before the
// deduplicating insert into the observations table.
const tmpObservationsTable = "tmp_observations_table"

// obsRowsBuffer bounds the producer/consumer channel, keeping memory
// flat while the reader and the COPY stream run concurrently.
const obsRowsBuffer = 10_000

// obsFilters hold the per-run observation filters, with dates already
// parsed. A zero time means the bound is absent.
type obsFilters struct {
	region string
	start  time.Time
	end    time.Time
}

func (imp *importer) filters() (obsFilters, error) {
	var f obsFilters
	f.region = strings.TrimSpace(imp.cfg.Import.Region)

	if s := imp.cfg.Import.StartDate; s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, RowValueError("start_date", s, err)
		}
		f.start = t
	}
	if s := imp.cfg.Import.EndDate; s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, RowValueError("end_date", s, err)
		}
		f.end = t
	}
	return f, nil
}

// keep reports whether a record passes the region and date filters.
// The date filter applies only when at least one bound is set and the
// record carries an observation date; records without one pass
// through. A non-blank date that does not parse is a data error.
func (f obsFilters) keep(rec archive.Record) (bool, error) {
	if f.region != "" {
		code, _ := rec.Value("STATE CODE")
		if strings.TrimSpace(code) != f.region {
			return false, nil
		}
	}

	if f.start.IsZero() && f.end.IsZero() {
		return true, nil
	}

	raw, _ := rec.Value("OBSERVATION DATE")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true, nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return false, RowValueError("observation_date", raw, err)
	}
	if !f.start.IsZero() && date.Before(f.start) {
		return false, nil
	}
	if !f.end.IsZero() && date.After(f.end) {
		return false, nil
	}
	return true, nil
}

// obsConverter resolves species codes and converts observation
// records to CopyFrom rows. It tracks skipped records and warns once
// per unresolved scientific name.
type obsConverter struct {
	codes  map[string]string
	warned map[string]bool

	unresolved int64
}

// convert returns the row for one record, or nil when the record's
// scientific name is not in the taxonomy and the record is skipped.
// Subspecies names that do not resolve degrade to NULL instead of
// dropping the record.
func (c *obsConverter) convert(rec archive.Record) ([]any, error) {
	sciName, _ := rec.Value("SCIENTIFIC NAME")
	code, ok := c.codes[strings.TrimSpace(sciName)]
	if !ok {
		c.unresolved++
		if !c.warned[sciName] {
			c.warned[sciName] = true
			slog.Warn("Scientific name not in taxonomy, skipping",
				"name", sciName)
		}
		return nil, nil
	}

	var subCode any
	if sub, _ := rec.Value("SUBSPECIES SCIENTIFIC NAME"); sub != "" {
		if v, ok := c.codes[strings.TrimSpace(sub)]; ok {
			subCode = v
		}
	}

	// "X" means present but not counted.
	var count any
	if raw, _ := rec.Value("OBSERVATION COUNT"); raw != "X" {
		v, err := nullInt("observation_count", raw)
		if err != nil {
			return nil, err
		}
		count = v
	}

	hasMedia, err := nullBool("has_media", field(rec, "HAS MEDIA"))
	if err != nil {
		return nil, err
	}
	approved, err := nullBool("approved", field(rec, "APPROVED"))
	if err != nil {
		return nil, err
	}
	reviewed, err := nullBool("reviewed", field(rec, "REVIEWED"))
	if err != nil {
		return nil, err
	}

	row := []any{
		nullText(field(rec, "GLOBAL UNIQUE IDENTIFIER")),
		nullText(field(rec, "SAMPLING EVENT IDENTIFIER")),
		code,
		subCode,
		nullText(field(rec, "EXOTIC CODE")),
		count,
		nullText(field(rec, "BREEDING CODE")),
		nullText(field(rec, "BREEDING CATEGORY")),
		nullText(field(rec, "BEHAVIOR CODE")),
		nullText(field(rec, "AGE/SEX")),
		nullText(field(rec, "SPECIES COMMENTS")),
		hasMedia,
		approved,
		reviewed,
		nullText(field(rec, "REASON")),
	}
	return row, nil
}

func field(rec archive.Record, header string) string {
	v, _ := rec.Value(header)
	return v
}

// chanSource adapts a channel of converted rows to
// pgx.CopyFromSource.
type chanSource struct {
	rows <-chan []any
	ctx  context.Context

	row []any
	err error
}

func (s *chanSource) Next() bool {
	select {
	case row, ok := <-s.rows:
		if !ok {
			return false
		}
		s.row = row
		return true
	case <-s.ctx.Done():
		s.err = s.ctx.Err()
		return false
	}
}

func (s *chanSource) Values() ([]any, error) {
	return s.row, s.err
}

func (s *chanSource) Err() error {
	return s.err
}

// insertObservations streams the observations extract through the
// filters and species resolution into a staging table, then moves
// unique rows into the observations table. The staging hop lets the
// load use COPY while still skipping identifiers loaded by earlier
// runs.
func (imp *importer) insertObservations(
	ctx context.Context,
	pool db.Pool,
	archivePath string,
) (stageResult, error) {
	var res stageResult
	obs := schema.Observation{}

	flt, err := imp.filters()
	if err != nil {
		return res, err
	}

	codes, err := imp.resolver.CodeMap(ctx)
	if err != nil {
		return res, err
	}

	if _, err := pool.Exec(ctx, obs.TableDDL()); err != nil {
		return res, StagingTableError(obs.TableName(), err)
	}
	if err := prepareObsStaging(ctx, pool, obs); err != nil {
		return res, err
	}

	rdr, err := ioarchive.NewReader(archivePath, archive.Observations)
	if err != nil {
		return res, err
	}
	defer rdr.Close()

	slog.Info("Streaming observation records",
		"member", rdr.Name(), "size", rdr.Size())

	conv := &obsConverter{
		codes:  codes,
		warned: make(map[string]bool),
	}
	bar := newBytesBar(rdr.Size(), "observations ")
	rows := make(chan []any, obsRowsBuffer)

	g, gCtx := errgroup.WithContext(ctx)

	var filtered int64
	g.Go(func() error {
		defer close(rows)
		for {
			rec, err := rdr.Next()
			bar.Add64(rdr.LastBytesRead())
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			ok, err := flt.keep(rec)
			if err != nil {
				return err
			}
			if !ok {
				filtered++
				continue
			}
			row, err := conv.convert(rec)
			if err != nil {
				return err
			}
			if row == nil {
				continue
			}

			select {
			case rows <- row:
			case <-gCtx.Done():
				return gCtx.Err()
			}
		}
	})

	var copied int64
	g.Go(func() error {
		src := &chanSource{rows: rows, ctx: gCtx}
		n, err := db.CopyFrom(
			gCtx, pool, tmpObservationsTable, obs.Columns(), src,
		)
		if err != nil {
			return CopyError(tmpObservationsTable, err)
		}
		copied = n
		return nil
	})

	err = g.Wait()
	bar.Finish()
	if err != nil {
		return res, err
	}

	added, err := moveObservations(ctx, pool, obs)
	if err != nil {
		return res, err
	}

	res.rowsAdded = added
	res.rowsSkipped = conv.unresolved
	res.rowsFiltered = filtered
	if conv.unresolved > 0 {
		slog.Warn("Skipped records with unresolved species",
			"count", humanize.Comma(conv.unresolved),
			"names", len(conv.warned))
	}
	slog.Info("Loaded observations",
		"staged", humanize.Comma(copied),
		"added", humanize.Comma(added),
		"filtered", humanize.Comma(filtered))

	return res, vacuumTable(ctx, pool, obs.TableName())
}

// prepareObsStaging creates an unconstrained clone of the
// observations table and empties it.
func prepareObsStaging(
	ctx context.Context, pool db.Pool, obs schema.Observation,
) error {
	q := "CREATE TABLE IF NOT EXISTS " + tmpObservationsTable +
		" AS SELECT * FROM " + obs.TableName() + " WITH NO DATA"
	if _, err := pool.Exec(ctx, q); err != nil {
		return StagingTableError(tmpObservationsTable, err)
	}
	q = "TRUNCATE " + tmpObservationsTable
	if _, err := pool.Exec(ctx, q); err != nil {
		return StagingTableError(tmpObservationsTable, err)
	}
	return nil
}

// moveObservations inserts unique staged rows into the observations
// table and drops the staging clone.
func moveObservations(
	ctx context.Context, pool db.Pool, obs schema.Observation,
) (int64, error) {
	list := strings.Join(obs.Columns(), ", ")
	q := "INSERT INTO " + obs.TableName() + " (" + list + ")\n" +
		"SELECT DISTINCT ON (global_unique_identifier) " + list + "\n" +
		"FROM " + tmpObservationsTable + "\n" +
		"WHERE global_unique_identifier IS NOT NULL\n" +
		"ON CONFLICT (global_unique_identifier) DO NOTHING"

	tag, err := pool.Exec(ctx, q)
	if err != nil {
		return 0, InsertError(obs.TableName(), err)
	}

	q = "DROP TABLE IF EXISTS " + tmpObservationsTable
	if _, err := pool.Exec(ctx, q); err != nil {
		return 0, StagingTableError(tmpObservationsTable, err)
	}

	return tag.RowsAffected(), nil
}
