// Package ioimport implements the staged import of eBird Basic
// Dataset archives into PostgreSQL. This is an impure I/O package
// that streams archive members and performs bulk loads.
package ioimport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/ebirddb/internal/ioarchive"
	ebirddb "github.com/gnames/ebirddb/pkg"
	"github.com/gnames/ebirddb/pkg/config"
	"github.com/gnames/ebirddb/pkg/db"
	"github.com/gnames/ebirddb/pkg/taxonomy"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// importer implements the Importer interface.
type importer struct {
	cfg      *config.Config
	operator db.Operator
	resolver taxonomy.Resolver
}

// New creates a new Importer.
func New(
	cfg *config.Config,
	op db.Operator,
	resolver taxonomy.Resolver,
) ebirddb.Importer {
	return &importer{cfg: cfg, operator: op, resolver: resolver}
}

// stageTiming holds the outcome of one finished stage for the run
// summary.
type stageTiming struct {
	stage    ebirddb.Stage
	duration time.Duration
	result   stageResult
}

// Import runs one stage, or the full sequence for StageFull. Stages
// run strictly in order; the first failure stops the run and
// already-committed stages keep their data.
func (imp *importer) Import(
	ctx context.Context,
	archivePath string,
	stage ebirddb.Stage,
) error {
	pool := imp.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	if err := ioarchive.Validate(archivePath); err != nil {
		return err
	}

	seq := stage.Sequence()
	startTime := time.Now()
	slog.Info("Starting import",
		"archive", archivePath, "stage", stage.String())

	var timings []stageTiming
	for i, st := range seq {
		select {
		case <-ctx.Done():
			return StageError(st.String(), ctx.Err())
		default:
		}

		gn.Info("(%d/%d) stage <em>%s</em>", i+1, len(seq), st)
		stageStart := time.Now()

		res, err := imp.runStage(ctx, pool, archivePath, st)
		if err != nil {
			return StageError(st.String(), err)
		}

		dur := time.Since(stageStart)
		recordRun(ctx, pool, st.String(), archivePath,
			stageStart, res)
		timings = append(timings,
			stageTiming{stage: st, duration: dur, result: res})

		slog.Info("Stage complete",
			"stage", st.String(),
			"duration", gnfmt.TimeString(dur.Seconds()),
			"rows_added", res.rowsAdded,
			"rows_skipped", res.rowsSkipped,
			"rows_filtered", res.rowsFiltered,
		)
	}

	imp.summary(timings, time.Since(startTime))
	return nil
}

// runStage dispatches one stage to its implementation.
func (imp *importer) runStage(
	ctx context.Context,
	pool db.Pool,
	archivePath string,
	stage ebirddb.Stage,
) (stageResult, error) {
	switch stage {
	case ebirddb.StageCopySampling:
		return copySampling(ctx, pool, archivePath)
	case ebirddb.StageLocalities:
		return insertLocalities(ctx, pool)
	case ebirddb.StageChecklists:
		return insertChecklists(ctx, pool)
	case ebirddb.StageDropSampling:
		return dropSampling(ctx, pool)
	case ebirddb.StageSpecies:
		return imp.insertSpecies(ctx, pool)
	case ebirddb.StageObservations:
		return imp.insertObservations(ctx, pool, archivePath)
	}
	return stageResult{}, fmt.Errorf("no stage dispatch for %s", stage)
}

// summary prints per-stage timings with their share of the run, then
// the total.
func (imp *importer) summary(
	timings []stageTiming,
	total time.Duration,
) {
	var rows, skipped, filtered int64
	for _, t := range timings {
		pct := 0.0
		if total > 0 {
			pct = 100 * t.duration.Seconds() / total.Seconds()
		}
		gn.Info("  %-14s %12s  %5.1f%%",
			t.stage.String(),
			gnfmt.TimeString(t.duration.Seconds()),
			pct,
		)
		rows += t.result.rowsAdded
		skipped += t.result.rowsSkipped
		filtered += t.result.rowsFiltered
	}

	gn.Info(`Import complete
Rows added: <em>%s</em>, skipped: <em>%s</em>, filtered: <em>%s</em>
Elapsed time: <em>%s</em>
`,
		humanize.Comma(rows),
		humanize.Comma(skipped),
		humanize.Comma(filtered),
		gnfmt.TimeString(total.Seconds()),
	)
	slog.Info("Import complete",
		"rows_added", rows,
		"rows_skipped", skipped,
		"rows_filtered", filtered,
		"duration", gnfmt.TimeString(total.Seconds()),
	)
}
