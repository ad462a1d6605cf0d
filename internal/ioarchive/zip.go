package ioarchive

import (
	"archive/zip"
	"errors"
	"io"

	"github.com/gnames/ebirddb/pkg/archive"
)

// zipReader streams one member of a zip container. The zip format's
// own compression is transparent here, so byte accounting counts
// decompressed member bytes.
type zipReader struct {
	zf      *zip.ReadCloser
	member  io.ReadCloser
	scanner *recordScanner
	counter *countingReader
	name    string
	size    int64
	prev    int64
	last    int64
}

func newZipReader(path, suffix string) (archive.Reader, error) {
	zf, err := zip.OpenReader(path)
	if err != nil {
		return nil, OpenError(path, err)
	}

	var info *zip.File
	for _, f := range zf.File {
		if hasSuffix(f.Name, suffix) {
			info = f
			break
		}
	}
	if info == nil {
		zf.Close()
		return nil, MemberNotFoundError(path, suffix)
	}

	member, err := info.Open()
	if err != nil {
		zf.Close()
		return nil, ReadError(info.Name, err)
	}

	counter := &countingReader{r: member}
	return &zipReader{
		zf:      zf,
		member:  member,
		scanner: newRecordScanner(counter),
		counter: counter,
		name:    info.Name,
		size:    int64(info.UncompressedSize64),
	}, nil
}

func (z *zipReader) Name() string {
	return z.name
}

func (z *zipReader) Size() int64 {
	return z.size
}

func (z *zipReader) Next() (archive.Record, error) {
	rec, err := z.scanner.Next()
	z.last = z.counter.n - z.prev
	z.prev = z.counter.n
	if err != nil && err != io.EOF {
		return nil, ReadError(z.name, err)
	}
	return rec, err
}

func (z *zipReader) LastBytesRead() int64 {
	return z.last
}

func (z *zipReader) Close() error {
	err := z.member.Close()
	if errZip := z.zf.Close(); errZip != nil {
		err = errors.Join(err, errZip)
	}
	return err
}
