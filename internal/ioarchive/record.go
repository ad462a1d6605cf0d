package ioarchive

import (
	"encoding/csv"
	"io"

	"github.com/gnames/ebirddb/pkg/archive"
)

// recordScanner parses tab-separated text into archive.Record values.
// The first line is the header; it is read lazily by the first Next
// call so that byte accounting starts at zero.
type recordScanner struct {
	csv    *csv.Reader
	header []string
}

func newRecordScanner(r io.Reader) *recordScanner {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	// eBird extracts carry free-text columns with stray quotes and
	// the occasional short row.
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return &recordScanner{csv: cr}
}

// Next returns the next data row keyed by header names, or io.EOF.
// Rows shorter than the header leave the missing columns absent;
// fields beyond the header are dropped.
func (s *recordScanner) Next() (archive.Record, error) {
	if s.header == nil {
		header, err := s.csv.Read()
		if err != nil {
			return nil, err
		}
		s.header = header
	}

	row, err := s.csv.Read()
	if err != nil {
		return nil, err
	}

	rec := make(archive.Record, len(s.header))
	for i, col := range s.header {
		if i < len(row) {
			rec[col] = row[i]
		}
	}
	return rec, nil
}
