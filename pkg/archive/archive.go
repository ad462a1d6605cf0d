// Package archive defines the contract for streaming a single member
// of an eBird Basic Dataset archive as decoded tab-separated records.
//
// An eBird export is a tar or zip container holding two large extracts:
// a "sampling" file (checklist metadata together with locality fields)
// and an "observations" file (one row per species sighting). Both are
// tab-separated text with a header row. Inside tar exports each member
// is additionally gzip-compressed; inside zip exports it is not.
package archive

// Kind selects which of the two eBird extracts to locate in an archive.
type Kind int

const (
	// Sampling is the checklist/locality extract.
	Sampling Kind = iota
	// Observations is the per-sighting extract.
	Observations
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Sampling:
		return "sampling"
	case Observations:
		return "observations"
	}
	return "unknown"
}

// Record is one parsed row, keyed by the case-sensitive header names of
// the extract (for example "LOCALITY ID", "SAMPLING EVENT IDENTIFIER").
// Columns absent from a row are absent from the map.
type Record map[string]string

// Value returns the value of a column and whether the column is present.
func (r Record) Value(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Reader streams one archive member as a forward-only sequence of
// records. The sequence is not restartable: re-reading requires opening
// a new Reader. Implementations must close the container, decompression
// and decoding handles together on Close, and constructors that fail
// must not leak any handle they already opened.
type Reader interface {
	// Name returns the name of the member inside the container.
	Name() string

	// Size returns the total number of bytes the stream will consume:
	// for tar members the stored (compressed) member size, for zip
	// members the uncompressed size. Used for progress reporting.
	Size() int64

	// Next returns the next record, or io.EOF after the last one.
	// The first line of the member is the header row and is consumed
	// by the first call.
	Next() (Record, error)

	// LastBytesRead returns the bytes consumed from the member by the
	// most recent Next call, including the call that returned io.EOF.
	// Values are monotone in sum: adding them across all Next calls
	// gives the total consumed size.
	LastBytesRead() int64

	// Close releases all underlying handles.
	Close() error
}
