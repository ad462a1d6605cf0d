package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaConstraintError

	// Archive errors
	ArchiveUnsupportedFormatError
	ArchiveOpenError
	ArchiveMemberNotFoundError
	ArchiveReadError

	// Taxonomy errors
	TaxonomyMissingCredentialError
	TaxonomyUpstreamError
	TaxonomyDecodeError

	// Import errors
	ImportStageError
	ImportUnknownStageError
	ImportStagingTableError
	ImportCopyError
	ImportInsertError
	ImportRowValueError
	ImportVacuumError
	ImportAuditError
)
