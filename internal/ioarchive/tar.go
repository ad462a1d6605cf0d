package ioarchive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"os"

	"github.com/gnames/ebirddb/pkg/archive"
)

// tarReader streams one gzip-compressed member of a tar container.
// Byte accounting counts compressed member bytes read from the
// container, because only the compressed size is known up front.
type tarReader struct {
	file    *os.File
	gz      *gzip.Reader
	scanner *recordScanner
	counter *countingReader
	name    string
	size    int64
	prev    int64
	last    int64
}

func newTarReader(path, suffix string) (archive.Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, OpenError(path, err)
	}

	tr := tar.NewReader(file)
	var hdr *tar.Header
	for {
		h, err := tr.Next()
		if err == io.EOF {
			file.Close()
			return nil, MemberNotFoundError(path, suffix)
		}
		if err != nil {
			file.Close()
			return nil, OpenError(path, err)
		}
		if h.Typeflag == tar.TypeReg && hasSuffix(h.Name, suffix) {
			hdr = h
			break
		}
	}

	counter := &countingReader{r: tr}
	gz, err := gzip.NewReader(counter)
	if err != nil {
		file.Close()
		return nil, ReadError(hdr.Name, err)
	}

	return &tarReader{
		file:    file,
		gz:      gz,
		scanner: newRecordScanner(gz),
		counter: counter,
		name:    hdr.Name,
		size:    hdr.Size,
	}, nil
}

func (t *tarReader) Name() string {
	return t.name
}

func (t *tarReader) Size() int64 {
	return t.size
}

func (t *tarReader) Next() (archive.Record, error) {
	rec, err := t.scanner.Next()
	t.last = t.counter.n - t.prev
	t.prev = t.counter.n
	if err != nil && err != io.EOF {
		return nil, ReadError(t.name, err)
	}
	return rec, err
}

func (t *tarReader) LastBytesRead() int64 {
	return t.last
}

func (t *tarReader) Close() error {
	err := t.gz.Close()
	if errFile := t.file.Close(); errFile != nil {
		err = errors.Join(err, errFile)
	}
	return err
}

func hasSuffix(name, suffix string) bool {
	return len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix
}
