package ebirddb

import (
	"context"

	"github.com/gnames/ebirddb/pkg/config"
)

// Importer runs the staged load pipeline against an eBird Basic
// Dataset archive. Stages execute strictly sequentially; on a stage's
// failure the sequence stops and already-committed stages keep their
// data. Re-running a failed stage after a fix is safe.
type Importer interface {
	// Import runs one stage, or the full six-stage sequence when stage
	// is StageFull.
	Import(ctx context.Context, archivePath string, stage Stage) error
}

// SchemaManager creates the database schema.
type SchemaManager interface {
	// Create builds all persistent tables and their foreign-key
	// constraints.
	Create(ctx context.Context, cfg *config.Config) error
}
