package ioimport

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gnames/ebirddb/pkg/db"
	"github.com/gnames/ebirddb/pkg/schema"
	"github.com/gnames/ebirddb/pkg/taxonomy"
)

// insertSpecies loads the eBird taxonomy into the species table in
// batches. Existing rows keep their data: the taxonomy is treated as
// append-only, so a re-run only adds taxa that are new.
func (imp *importer) insertSpecies(
	ctx context.Context, pool db.Pool,
) (stageResult, error) {
	var res stageResult
	sp := schema.Species{}

	if _, err := pool.Exec(ctx, sp.TableDDL()); err != nil {
		return res, StagingTableError(sp.TableName(), err)
	}

	records, err := imp.resolver.Records(ctx)
	if err != nil {
		return res, err
	}

	batchSize := imp.cfg.Database.BatchSize
	if batchSize <= 0 {
		batchSize = 5_000
	}

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		added, err := insertSpeciesBatch(ctx, pool, sp,
			records[start:end])
		if err != nil {
			return res, err
		}
		res.rowsAdded += added
	}

	slog.Info("Loaded taxonomy",
		"taxa", humanize.Comma(int64(len(records))),
		"added", humanize.Comma(res.rowsAdded))
	return res, vacuumTable(ctx, pool, sp.TableName())
}

// insertSpeciesBatch inserts one batch with a multi-row INSERT.
func insertSpeciesBatch(
	ctx context.Context,
	pool db.Pool,
	sp schema.Species,
	batch []taxonomy.Species,
) (int64, error) {
	rows := make([][]any, len(batch))
	for i, rec := range batch {
		rows[i] = []any{
			rec.SpeciesCode,
			nullText(rec.CommonName),
			nullText(rec.ScientificName),
			nullText(rec.Category),
			int(rec.TaxonOrder),
			rec.BandingCodes,
			rec.CommonNameCodes,
			rec.ScientificNameCodes,
			nullText(rec.Order),
			nullText(rec.FamilyCode),
			nullText(rec.FamilyCommonName),
			nullText(rec.FamilyScientificName),
		}
	}

	added, err := db.InsertBatch(ctx, pool, sp.TableName(),
		sp.Columns(), rows, "species_code")
	if err != nil {
		return 0, InsertError(sp.TableName(), err)
	}
	return added, nil
}
