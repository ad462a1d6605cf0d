package ioarchive

import (
	"fmt"

	"github.com/gnames/ebirddb/pkg/errcode"
	"github.com/gnames/gn"
)

// UnsupportedFormatError creates an error for archive paths that are
// neither tar nor zip.
func UnsupportedFormatError(path string) error {
	msg := `Unsupported archive format: <em>%s</em>

<em>How to fix:</em>
  1. Use an eBird Basic Dataset export ending in .tar or .zip
  2. Do not unpack or re-compress the export before importing`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ArchiveUnsupportedFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unsupported archive format: %s", path),
	}
}

// OpenError creates an error for archives that cannot be opened.
func OpenError(path string, err error) error {
	msg := `Cannot open archive <em>%s</em>

<em>Possible causes:</em>
  - File does not exist or is not readable
  - File is truncated or corrupted

<em>How to fix:</em>
  1. Check the path and file permissions
  2. Re-download the export if the file is damaged`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ArchiveOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot open archive %s: %w", path, err),
	}
}

// MemberNotFoundError creates an error for archives that do not contain
// a member with the required suffix.
func MemberNotFoundError(path, suffix string) error {
	msg := `No member ending in <em>%s</em> found in <em>%s</em>

<em>Possible causes:</em>
  - The archive is not an eBird Basic Dataset export
  - The archive was renamed, so the observations member
    no longer matches the name token

<em>How to fix:</em>
  1. Keep the original file name of the export
  2. Check the archive contents with tar -tf or unzip -l`

	vars := []any{suffix, path}

	return &gn.Error{
		Code: errcode.ArchiveMemberNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no member with suffix %s in %s", suffix, path),
	}
}

// ReadError creates an error for failures while decoding a member.
func ReadError(member string, err error) error {
	msg := `Cannot read archive member <em>%s</em>

<em>Possible causes:</em>
  - The member is not valid gzip data
  - The archive is truncated`

	vars := []any{member}

	return &gn.Error{
		Code: errcode.ArchiveReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot read member %s: %w", member, err),
	}
}
