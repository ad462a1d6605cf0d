package ioimport

import (
	"context"
	"regexp"
	"testing"

	"github.com/gnames/ebirddb/pkg/config"
	"github.com/gnames/ebirddb/pkg/taxonomy"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver serves a fixed taxonomy without network access.
type fakeResolver struct {
	records []taxonomy.Species
	err     error
}

func (f *fakeResolver) Records(
	ctx context.Context,
) ([]taxonomy.Species, error) {
	return f.records, f.err
}

func (f *fakeResolver) CodeMap(
	ctx context.Context,
) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := make(map[string]string)
	for _, rec := range f.records {
		m[rec.ScientificName] = rec.SpeciesCode
	}
	return m, nil
}

func testTaxonomy() []taxonomy.Species {
	return []taxonomy.Species{
		{
			SpeciesCode:    "blujay",
			ScientificName: "Cyanocitta cristata",
			CommonName:     "Blue Jay",
			Category:       "species",
			TaxonOrder:     19878,
		},
		{
			SpeciesCode:    "amecro",
			ScientificName: "Corvus brachyrhynchos",
			CommonName:     "American Crow",
			Category:       "species",
			TaxonOrder:     20621,
		},
		{
			SpeciesCode:    "yerwar",
			ScientificName: "Setophaga coronata",
			CommonName:     "Yellow-rumped Warbler",
			Category:       "species",
			TaxonOrder:     30350,
			// subspecies groups resolve through the same map
			ScientificNameCodes: []string{"SECO"},
		},
	}
}

// anyArgs builds n placeholder matchers for bulk-insert expectations.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestInsertSpecies(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	imp := &importer{
		cfg:      config.New(),
		resolver: &fakeResolver{records: testTaxonomy()},
	}

	mock.ExpectExec(
		regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS species")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	// three taxa, twelve columns each
	mock.ExpectExec(
		regexp.QuoteMeta("INSERT INTO species (species_code,")).
		WithArgs(anyArgs(36)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 3))
	mock.ExpectExec(regexp.QuoteMeta("VACUUM species")).
		WillReturnResult(pgxmock.NewResult("VACUUM", 0))

	res, err := imp.insertSpecies(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.rowsAdded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSpecies_Batches(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := config.New()
	cfg.Database.BatchSize = 2
	imp := &importer{
		cfg:      cfg,
		resolver: &fakeResolver{records: testTaxonomy()},
	}

	mock.ExpectExec(
		regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS species")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	// three taxa with batch size two means two INSERTs
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO species")).
		WithArgs(anyArgs(24)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO species")).
		WithArgs(anyArgs(12)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("VACUUM species")).
		WillReturnResult(pgxmock.NewResult("VACUUM", 0))

	res, err := imp.insertSpecies(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.rowsAdded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSpecies_ResolverError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	imp := &importer{
		cfg:      config.New(),
		resolver: &fakeResolver{err: assert.AnError},
	}

	mock.ExpectExec(
		regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS species")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	_, err = imp.insertSpecies(context.Background(), mock)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
