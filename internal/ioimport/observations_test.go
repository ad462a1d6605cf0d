package ioimport

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gnames/ebirddb/pkg/archive"
	"github.com/gnames/ebirddb/pkg/config"
	"github.com/gnames/ebirddb/pkg/errcode"
	"github.com/gnames/ebirddb/pkg/schema"
	"github.com/gnames/gn"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obsRecord() archive.Record {
	return archive.Record{
		"GLOBAL UNIQUE IDENTIFIER":  "URN:CornellLabOfOrnithology:EBIRD:OBS1",
		"SAMPLING EVENT IDENTIFIER": "S900",
		"SCIENTIFIC NAME":           "Cyanocitta cristata",
		"OBSERVATION COUNT":         "4",
		"STATE CODE":                "US-NY",
		"OBSERVATION DATE":          "2020-06-15",
		"HAS MEDIA":                 "0",
		"APPROVED":                  "1",
		"REVIEWED":                  "0",
	}
}

func TestFilters_Parse(t *testing.T) {
	cfg := config.New()
	cfg.Import.StartDate = "2020-01-01"
	cfg.Import.EndDate = "2020-12-31"
	cfg.Import.Region = "US-NY"
	imp := &importer{cfg: cfg}

	f, err := imp.filters()
	require.NoError(t, err)
	assert.Equal(t, "US-NY", f.region)
	assert.Equal(t,
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), f.start)
	assert.Equal(t,
		time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), f.end)
}

func TestFilters_BadDate(t *testing.T) {
	cfg := config.New()
	cfg.Import.StartDate = "01/01/2020"
	imp := &importer{cfg: cfg}

	_, err := imp.filters()
	assert.Error(t, err)
}

func TestFilters_Keep_Region(t *testing.T) {
	f := obsFilters{region: "US-NY"}

	ok, err := f.keep(obsRecord())
	require.NoError(t, err)
	assert.True(t, ok)

	rec := obsRecord()
	rec["STATE CODE"] = "US-NJ"
	ok, err = f.keep(rec)
	require.NoError(t, err)
	assert.False(t, ok, "exact state code match required")

	rec["STATE CODE"] = "US-NY-061"
	ok, err = f.keep(rec)
	require.NoError(t, err)
	assert.False(t, ok,
		"county codes do not match a state region")
}

func TestFilters_Keep_DateRange(t *testing.T) {
	f := obsFilters{
		start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		date string
		want bool
		msg  string
	}{
		{"2020-06-15", true, "inside the range"},
		{"2019-12-31", false, "before the lower bound"},
		{"2021-01-01", false, "after the upper bound"},
		{"2020-01-01", true, "bounds are inclusive"},
		{"2020-12-31", true, "bounds are inclusive"},
	}
	for _, c := range cases {
		rec := obsRecord()
		rec["OBSERVATION DATE"] = c.date
		ok, err := f.keep(rec)
		require.NoError(t, err)
		assert.Equal(t, c.want, ok, c.msg)
	}
}

// The date filter only applies when the record carries an observation
// date; records without one pass through unfiltered.
func TestFilters_Keep_AbsentDate(t *testing.T) {
	f := obsFilters{
		start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	rec := obsRecord()
	delete(rec, "OBSERVATION DATE")
	ok, err := f.keep(rec)
	require.NoError(t, err)
	assert.True(t, ok, "absent date passes the date filter")

	rec = obsRecord()
	rec["OBSERVATION DATE"] = ""
	ok, err = f.keep(rec)
	require.NoError(t, err)
	assert.True(t, ok, "blank date passes the date filter")
}

func TestFilters_Keep_BadDate(t *testing.T) {
	f := obsFilters{
		start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	rec := obsRecord()
	rec["OBSERVATION DATE"] = "not a date"
	_, err := f.keep(rec)
	require.Error(t, err,
		"a non-blank unparseable date is a data error")

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ImportRowValueError, gnErr.Code)
}

func TestFilters_Keep_NoFilters(t *testing.T) {
	var f obsFilters
	rec := obsRecord()
	rec["OBSERVATION DATE"] = "not a date"
	ok, err := f.keep(rec)
	require.NoError(t, err)
	assert.True(t, ok,
		"no filters means every record passes, dates unexamined")
}

func newObsConverter() *obsConverter {
	return &obsConverter{
		codes: map[string]string{
			"Cyanocitta cristata":         "blujay",
			"Corvus brachyrhynchos":       "amecro",
			"Setophaga coronata coronata": "myrwar",
		},
		warned: make(map[string]bool),
	}
}

func TestObsConverter_Convert(t *testing.T) {
	conv := newObsConverter()

	row, err := conv.convert(obsRecord())
	require.NoError(t, err)
	require.Len(t, row, len(schema.Observation{}.Columns()))

	assert.Equal(t,
		"URN:CornellLabOfOrnithology:EBIRD:OBS1", row[0])
	assert.Equal(t, "S900", row[1])
	assert.Equal(t, "blujay", row[2])
	assert.Nil(t, row[3], "no subspecies in record")
	assert.Equal(t, int64(4), row[5])
	assert.Equal(t, false, row[11])
	assert.Equal(t, true, row[12])
	assert.Equal(t, int64(0), conv.unresolved)
}

func TestObsConverter_UnresolvedSpeciesSkips(t *testing.T) {
	conv := newObsConverter()

	rec := obsRecord()
	rec["SCIENTIFIC NAME"] = "Nomen dubium"

	row, err := conv.convert(rec)
	require.NoError(t, err)
	assert.Nil(t, row, "unresolved species drops the record")
	assert.Equal(t, int64(1), conv.unresolved)

	// same name again counts but warns only once
	_, err = conv.convert(rec)
	require.NoError(t, err)
	assert.Equal(t, int64(2), conv.unresolved)
	assert.Len(t, conv.warned, 1)
}

func TestObsConverter_SubspeciesResolution(t *testing.T) {
	conv := newObsConverter()

	rec := obsRecord()
	rec["SUBSPECIES SCIENTIFIC NAME"] = "Setophaga coronata coronata"
	row, err := conv.convert(rec)
	require.NoError(t, err)
	assert.Equal(t, "myrwar", row[3])

	// unresolved subspecies keeps the record, code becomes NULL
	rec["SUBSPECIES SCIENTIFIC NAME"] = "Cyanocitta cristata ignota"
	row, err = conv.convert(rec)
	require.NoError(t, err)
	assert.Nil(t, row[3])
	assert.Equal(t, int64(0), conv.unresolved)
}

func TestObsConverter_CountX(t *testing.T) {
	conv := newObsConverter()

	rec := obsRecord()
	rec["OBSERVATION COUNT"] = "X"

	row, err := conv.convert(rec)
	require.NoError(t, err)
	assert.Nil(t, row[5],
		"X means present but not counted and becomes NULL")
}

func TestChanSource(t *testing.T) {
	rows := make(chan []any, 2)
	rows <- []any{"a"}
	rows <- []any{"b"}
	close(rows)

	src := &chanSource{rows: rows, ctx: context.Background()}

	require.True(t, src.Next())
	row, err := src.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, row)

	require.True(t, src.Next())
	assert.False(t, src.Next(), "closed channel ends the stream")
	assert.NoError(t, src.Err())
}

func TestChanSource_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &chanSource{
		rows: make(chan []any),
		ctx:  ctx,
	}

	assert.False(t, src.Next())
	assert.Error(t, src.Err())
}

func observationsExtract() string {
	header := strings.Join([]string{
		"GLOBAL UNIQUE IDENTIFIER", "SAMPLING EVENT IDENTIFIER",
		"SCIENTIFIC NAME", "OBSERVATION COUNT", "STATE CODE",
		"OBSERVATION DATE", "HAS MEDIA", "APPROVED", "REVIEWED",
	}, "\t")
	rows := []string{
		header,
		// kept
		"OBS1\tS1\tCyanocitta cristata\t4\tUS-NY\t2020-06-15\t0\t1\t0",
		// dropped by the region filter
		"OBS2\tS2\tCyanocitta cristata\t2\tUS-NJ\t2020-06-15\t0\t1\t0",
		// no observation date: the date filter does not apply
		"OBS3\tS3\tCorvus brachyrhynchos\t1\tUS-NY\t\t0\t1\t0",
		// skipped: species not in the taxonomy
		"OBS4\tS4\tNomen dubium\t1\tUS-NY\t2020-06-15\t0\t1\t0",
	}
	return strings.Join(rows, "\n") + "\n"
}

// One record per outcome: kept, filtered by region, kept without a
// date, skipped on species resolution. Filter drops and resolution
// skips are counted separately.
func TestInsertObservations_Counts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ebd-obsrun.zip")
	writeZip(t, path, map[string]string{
		"obsrun.txt": observationsExtract(),
	})

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := config.New()
	cfg.Import.Region = "US-NY"
	cfg.Import.StartDate = "2020-01-01"
	cfg.Import.EndDate = "2020-12-31"
	imp := &importer{
		cfg:      cfg,
		resolver: &fakeResolver{records: testTaxonomy()},
	}

	obs := schema.Observation{}
	mock.ExpectExec(
		regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS observations")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(
		regexp.QuoteMeta(
			"CREATE TABLE IF NOT EXISTS tmp_observations_table")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(
		regexp.QuoteMeta("TRUNCATE tmp_observations_table")).
		WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	mock.ExpectCopyFrom(
		pgx.Identifier{"tmp_observations_table"}, obs.Columns()).
		WillReturnResult(2)
	mock.ExpectExec(
		regexp.QuoteMeta(
			"SELECT DISTINCT ON (global_unique_identifier)")).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectExec(
		regexp.QuoteMeta(
			"DROP TABLE IF EXISTS tmp_observations_table")).
		WillReturnResult(pgxmock.NewResult("DROP", 0))
	mock.ExpectExec(regexp.QuoteMeta("VACUUM observations")).
		WillReturnResult(pgxmock.NewResult("VACUUM", 0))

	res, err := imp.insertObservations(
		context.Background(), mock, path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.rowsAdded)
	assert.Equal(t, int64(1), res.rowsSkipped,
		"one record with an unresolved species")
	assert.Equal(t, int64(1), res.rowsFiltered,
		"one record dropped by the region filter")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveObservations(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(
		regexp.QuoteMeta(
			"SELECT DISTINCT ON (global_unique_identifier)")).
		WillReturnResult(pgxmock.NewResult("INSERT", 42))
	mock.ExpectExec(
		regexp.QuoteMeta(
			"DROP TABLE IF EXISTS tmp_observations_table")).
		WillReturnResult(pgxmock.NewResult("DROP", 0))

	added, err := moveObservations(
		context.Background(), mock, schema.Observation{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrepareObsStaging(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(
		regexp.QuoteMeta(
			"CREATE TABLE IF NOT EXISTS tmp_observations_table "+
				"AS SELECT * FROM observations WITH NO DATA")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(
		regexp.QuoteMeta("TRUNCATE tmp_observations_table")).
		WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))

	err = prepareObsStaging(
		context.Background(), mock, schema.Observation{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
