package ioimport

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/ebirddb/internal/ioarchive"
	"github.com/gnames/ebirddb/pkg/archive"
	"github.com/gnames/ebirddb/pkg/db"
	"github.com/gnames/ebirddb/pkg/schema"
)

// colKind selects the converter for one staging column.
type colKind int

const (
	kindText colKind = iota
	kindFloat
	kindInt
	kindBool
	kindDate
	kindTime
	kindTimestamp
)

// colSpec binds one source header to one staging column.
type colSpec struct {
	header string
	column string
	kind   colKind
}

// samplingCols maps sampling extract headers onto the staging table
// in declaration order: locality fields first, checklist fields after.
var samplingCols = []colSpec{
	{"LOCALITY ID", "locality_id", kindText},
	{"LOCALITY", "name", kindText},
	{"LOCALITY TYPE", "type", kindText},
	{"LATITUDE", "latitude", kindFloat},
	{"LONGITUDE", "longitude", kindFloat},
	{"SAMPLING EVENT IDENTIFIER", "sampling_event_id", kindText},
	{"LAST EDITED DATE", "last_edited_date", kindTimestamp},
	{"COUNTRY", "country", kindText},
	{"COUNTRY CODE", "country_code", kindText},
	{"STATE", "state", kindText},
	{"STATE CODE", "state_code", kindText},
	{"COUNTY", "county", kindText},
	{"COUNTY CODE", "county_code", kindText},
	{"IBA CODE", "iba_code", kindText},
	{"BCR CODE", "bcr_code", kindText},
	{"USFWS CODE", "usfws_code", kindText},
	{"ATLAS BLOCK", "atlas_block", kindText},
	{"OBSERVATION DATE", "observation_date", kindDate},
	{"TIME OBSERVATIONS STARTED", "time_started", kindTime},
	{"OBSERVER ID", "observer_id", kindText},
	{"PROTOCOL TYPE", "protocol_type", kindText},
	{"PROTOCOL CODE", "protocol_code", kindText},
	{"PROJECT CODE", "project_code", kindText},
	{"DURATION MINUTES", "duration_minutes", kindInt},
	{"EFFORT DISTANCE KM", "effort_distance_km", kindFloat},
	{"EFFORT AREA HA", "effort_area_ha", kindFloat},
	{"NUMBER OBSERVERS", "number_observers", kindInt},
	{"ALL SPECIES REPORTED", "all_species_reported", kindBool},
	{"GROUP IDENTIFIER", "group_identifier", kindText},
	{"TRIP COMMENTS", "trip_comments", kindText},
}

// recordColumn reads one header from a record. Some export versions
// carry a lowercase "country" header, so COUNTRY falls back to it.
func recordColumn(rec archive.Record, header string) string {
	if v, ok := rec.Value(header); ok {
		return v
	}
	if header == "COUNTRY" {
		if v, ok := rec.Value("country"); ok {
			return v
		}
	}
	return ""
}

// convertRecord turns one parsed record into CopyFrom values in
// samplingCols order.
func convertRecord(rec archive.Record) ([]any, error) {
	row := make([]any, len(samplingCols))
	for i, col := range samplingCols {
		raw := recordColumn(rec, col.header)
		var (
			v   any
			err error
		)
		switch col.kind {
		case kindText:
			v = nullText(raw)
		case kindFloat:
			v, err = nullFloat(col.column, raw)
		case kindInt:
			v, err = nullInt(col.column, raw)
		case kindBool:
			v, err = nullBool(col.column, raw)
		case kindDate:
			v, err = nullDate(col.column, raw)
		case kindTime:
			v, err = nullTime(col.column, raw)
		case kindTimestamp:
			v, err = nullTimestamp(col.column, raw)
		}
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// samplingSource adapts an archive reader to pgx.CopyFromSource, so
// records stream into PostgreSQL without materializing the extract.
type samplingSource struct {
	rdr archive.Reader
	bar *pb.ProgressBar

	row  []any
	rows int64
	err  error
}

func (s *samplingSource) Next() bool {
	rec, err := s.rdr.Next()
	if s.bar != nil {
		s.bar.Add64(s.rdr.LastBytesRead())
	}
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		return false
	}

	s.row, s.err = convertRecord(rec)
	if s.err != nil {
		return false
	}
	s.rows++
	return true
}

func (s *samplingSource) Values() ([]any, error) {
	return s.row, s.err
}

func (s *samplingSource) Err() error {
	return s.err
}

// copySampling streams the sampling extract into the staging table.
// The table is created if missing and truncated first, so a re-run
// replaces the previous staging content.
func copySampling(
	ctx context.Context,
	pool db.Pool,
	archivePath string,
) (stageResult, error) {
	var res stageResult
	staging := schema.SamplingRow{}

	if _, err := pool.Exec(ctx, staging.TableDDL()); err != nil {
		return res, StagingTableError(staging.TableName(), err)
	}
	q := "TRUNCATE " + staging.TableName()
	if _, err := pool.Exec(ctx, q); err != nil {
		return res, StagingTableError(staging.TableName(), err)
	}

	rdr, err := ioarchive.NewReader(archivePath, archive.Sampling)
	if err != nil {
		return res, err
	}
	defer rdr.Close()

	slog.Info("Streaming sampling records",
		"member", rdr.Name(), "size", rdr.Size())

	bar := newBytesBar(rdr.Size(), "sampling ")
	src := &samplingSource{rdr: rdr, bar: bar}

	copied, err := db.CopyFrom(
		ctx, pool, staging.TableName(), staging.Columns(), src,
	)
	bar.Finish()
	if srcErr := src.Err(); srcErr != nil {
		return res, srcErr
	}
	if err != nil {
		return res, CopyError(staging.TableName(), err)
	}

	res.rowsAdded = copied
	return res, vacuumTable(ctx, pool, staging.TableName())
}
