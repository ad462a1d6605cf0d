// Package ioarchive implements archive.Reader for eBird Basic Dataset
// containers. This is an impure I/O package that opens tar and zip
// files and streams one member as tab-separated records.
package ioarchive

import (
	"archive/tar"
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/ebirddb/pkg/archive"
)

// NewReader opens the archive at path and returns a Reader over the
// member holding the requested extract. Tar members are expected to be
// gzip-compressed, zip members are not. If several members match the
// suffix, the first one in container order wins; archives produced by
// eBird only ever contain one match per extract.
func NewReader(path string, kind archive.Kind) (archive.Reader, error) {
	suffix, err := MemberSuffix(kind, path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".tar") {
		return newTarReader(path, suffix)
	}
	return newZipReader(path, suffix)
}

// MemberSuffix returns the member-name suffix that identifies the
// extract of the given kind inside the archive at path. The sampling
// extract has a fixed suffix; the observations extract is named after
// a token embedded in the archive's own filename, between the last '-'
// and the first '.' that follows it.
func MemberSuffix(kind archive.Kind, path string) (string, error) {
	var gz string
	switch {
	case strings.HasSuffix(path, ".tar"):
		gz = ".gz"
	case strings.HasSuffix(path, ".zip"):
	default:
		return "", UnsupportedFormatError(path)
	}

	if kind == archive.Sampling {
		return "_sampling.txt" + gz, nil
	}
	return observationsToken(path) + ".txt" + gz, nil
}

// observationsToken derives the member-name token from the archive
// filename. "ebd_US-NY_relFeb-2025.tar" yields "2025".
func observationsToken(path string) string {
	base := filepath.Base(path)
	if i := strings.LastIndex(base, "-"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// Validate checks that path points at a readable tar or zip container
// by listing its members. It does not look for particular extracts.
func Validate(path string) error {
	if _, err := os.Stat(path); err != nil {
		return OpenError(path, err)
	}

	switch {
	case strings.HasSuffix(path, ".tar"):
		file, err := os.Open(path)
		if err != nil {
			return OpenError(path, err)
		}
		defer file.Close()
		tr := tar.NewReader(file)
		for {
			_, err := tr.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return OpenError(path, err)
			}
		}
	case strings.HasSuffix(path, ".zip"):
		zf, err := zip.OpenReader(path)
		if err != nil {
			return OpenError(path, err)
		}
		return zf.Close()
	default:
		return UnsupportedFormatError(path)
	}
}

// countingReader tracks how many bytes have been consumed from the
// wrapped reader. Counts include read-ahead by downstream buffering,
// so per-record deltas are buffer-granular but their sum is exact.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
