/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/gnames/ebirddb/internal/ioarchive"
	"github.com/gnames/ebirddb/internal/iodb"
	"github.com/gnames/ebirddb/internal/ioimport"
	"github.com/gnames/ebirddb/internal/iotaxonomy"
	app "github.com/gnames/ebirddb/pkg"
	"github.com/gnames/ebirddb/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	var (
		stageName string
		startDate string
		endDate   string
		region    string
	)

	importCmd := &cobra.Command{
		Use:   "import ARCHIVE",
		Short: "Import an eBird Basic Dataset archive",
		Long: `Import an eBird Basic Dataset archive (tar or zip) into the
database. The archive is streamed directly; it is never unpacked to
disk.

The import runs in six stages:
  copy_sampling  stream sampling records into a staging table
  localities     derive unique localities from staging
  checklists     derive unique checklists from staging
  drop_sampling  discard the staging table
  species        load the eBird taxonomy
  observations   stream, filter and resolve observations

By default all six stages run in order. A failed run can continue
from the failed stage with --stage. Observation filters (--start-date,
--end-date, --region) apply to the observations stage only.

Examples:
  ebirddb import ebd_relFeb-2024.tar
  ebirddb import ebd_relFeb-2024.tar --stage observations
  ebirddb import ebd_US-NY.zip -r US-NY --start-date 2020-01-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], stageName,
				startDate, endDate, region)
		},
	}

	importCmd.Flags().StringVarP(&stageName, "stage", "s",
		"full", "stage to run (default runs all stages)")
	importCmd.Flags().StringVar(&startDate, "start-date", "",
		"keep observations on or after this date (YYYY-MM-DD)")
	importCmd.Flags().StringVar(&endDate, "end-date", "",
		"keep observations on or before this date (YYYY-MM-DD)")
	importCmd.Flags().StringVarP(&region, "region", "r", "",
		"keep observations with this state code (e.g. US-NY)")

	return importCmd
}

func runImport(
	archivePath, stageName, startDate, endDate, region string,
) error {
	ctx := context.Background()

	stage, err := app.ParseStage(stageName)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	hasFilters := startDate != "" || endDate != "" || region != ""
	if hasFilters && stage != app.StageFull &&
		stage != app.StageObservations {
		err = fmt.Errorf(
			"observation filters do not apply to stage %q; "+
				"use --stage observations or --stage full",
			stageName,
		)
		gn.PrintErrorMessage(err)
		return err
	}

	for _, d := range []string{startDate, endDate} {
		if d == "" {
			continue
		}
		if _, err = time.Parse("2006-01-02", d); err != nil {
			err = fmt.Errorf("invalid date %q, expected YYYY-MM-DD", d)
			gn.PrintErrorMessage(err)
			return err
		}
	}

	if err = ioarchive.Validate(archivePath); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg.Update([]config.Option{
		config.OptImportStartDate(startDate),
		config.OptImportEndDate(endDate),
		config.OptImportRegion(region),
	})

	op := iodb.NewPgxOperator()
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: %s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	// The schema must exist before any stage runs.
	hasTables, err := op.HasTables(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if !hasTables {
		err = iodb.EmptyDatabaseError(
			cfg.Database.Host, cfg.Database.Database)
		gn.PrintErrorMessage(err)
		return err
	}

	resolver := iotaxonomy.New(cfg)
	imp := ioimport.New(cfg, op, resolver)

	if err = imp.Import(ctx, archivePath, stage); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	return nil
}
