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
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/ebirddb/internal/iofs"
	"github.com/gnames/ebirddb/internal/iologger"
	app "github.com/gnames/ebirddb/pkg"
	"github.com/gnames/ebirddb/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the base command when called without any
// subcommands. Extracted as a function to facilitate testing and
// dynamic command registration.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "ebirddb",
		Short:   "ebirddb manages the lifecycle of an eBird observations database",
		Long: `ebirddb builds and maintains a normalized PostgreSQL database from
eBird Basic Dataset archives.

Features:
  - Schema Management: create the normalized tables with their
    foreign keys
  - Staged Import: stream the sampling and observations extracts
    straight from the tar or zip archive into PostgreSQL, stage by
    stage, without unpacking the archive
  - Taxonomy: load the eBird species taxonomy and resolve scientific
    names to stable species codes

Configuration lives in ~/.config/ebirddb/config.yaml and can be
overridden with EBIRDDB_* environment variables.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "ebirddb version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for ebirddb")

	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getImportCmd())

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
// Creates log file in the proper location now that we know HomeDir.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log)
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	// The POSTGRES_*, DB_NAME and EBIRD_API_KEY fallbacks keep
	// environments made for other eBird tooling working.
	v.SetEnvPrefix("EBIRDDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "EBIRDDB_DATABASE_HOST")
	v.BindEnv("database.port", "EBIRDDB_DATABASE_PORT")
	v.BindEnv("database.user", "EBIRDDB_DATABASE_USER", "POSTGRES_USER")
	v.BindEnv("database.password", "EBIRDDB_DATABASE_PASSWORD", "POSTGRES_PWD")
	v.BindEnv("database.database", "EBIRDDB_DATABASE_DATABASE", "DB_NAME")
	v.BindEnv("database.ssl_mode", "EBIRDDB_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "EBIRDDB_DATABASE_BATCH_SIZE")

	// Taxonomy configuration
	v.BindEnv("taxonomy.api_key", "EBIRDDB_TAXONOMY_API_KEY", "EBIRD_API_KEY")
	v.BindEnv("taxonomy.url", "EBIRDDB_TAXONOMY_URL")

	// Log configuration
	v.BindEnv("log.level", "EBIRDDB_LOG_LEVEL")
	v.BindEnv("log.format", "EBIRDDB_LOG_FORMAT")
	v.BindEnv("log.destination", "EBIRDDB_LOG_DESTINATION")

	v.AutomaticEnv()
}
