package ioimport

import (
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Converters turn raw extract strings into values for pgx CopyFrom
// and INSERT parameters. Blank or missing values become nil, which
// pgx encodes as SQL NULL. A non-blank value that does not parse is
// a hard error: it means the archive does not match the expected
// export format.

// nullText returns the trimmed string, or nil when it is blank.
func nullText(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// nullFloat parses a float column.
func nullFloat(column, s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, RowValueError(column, s, err)
	}
	return f, nil
}

// nullInt parses an integer column. Floats with a zero fraction,
// which some export versions emit for counts, are accepted.
func nullInt(column, s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return nil, RowValueError(column, s, err)
	}
	return int64(f), nil
}

// nullBool parses the extract's "0"/"1" boolean encoding.
func nullBool(column, s string) (any, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return nil, nil
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return nil, RowValueError(column, s, nil)
}

// nullDate parses a YYYY-MM-DD date column.
func nullDate(column, s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, RowValueError(column, s, err)
	}
	return t, nil
}

// nullTime parses an HH:MM:SS time-of-day column into pgtype.Time,
// which pgx encodes for TIME columns.
func nullTime(column, s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return nil, RowValueError(column, s, err)
	}
	usec := int64(t.Hour())*3600_000_000 +
		int64(t.Minute())*60_000_000 +
		int64(t.Second())*1_000_000
	return pgtype.Time{Microseconds: usec, Valid: true}, nil
}

// timestampLayouts cover the LAST EDITED DATE variants seen across
// export versions: with and without fractional seconds.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// nullTimestamp parses a timestamp column.
func nullTimestamp(column, s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, RowValueError(column, s, nil)
}
