// Package config provides configuration management for ebirddb.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Taxonomy: api_key, url
//   - Log: level, format, destination
//
// Runtime-only fields (CLI flags only):
//   - Import.StartDate, EndDate, Region (per-run observation filters)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use EBIRDDB_ prefix with underscores for nesting:
//
//	EBIRDDB_DATABASE_HOST=localhost
//	EBIRDDB_DATABASE_PORT=5432
//	EBIRDDB_TAXONOMY_API_KEY=...
//	EBIRDDB_LOG_LEVEL=info
//
// The variables POSTGRES_USER, POSTGRES_PWD, DB_NAME and EBIRD_API_KEY
// are recognized as well, so environments set up for other eBird tooling
// keep working without changes.
package config

// Config represents the complete ebirddb configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Taxonomy contains eBird taxonomy API settings.
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy" yaml:"taxonomy"`

	// Import contains per-run settings for the import command.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records per batch for bulk inserts
	// that go through INSERT statements (the species stage). Streaming
	// stages use COPY and are not affected by this setting.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// TaxonomyConfig contains settings for the eBird taxonomy service.
type TaxonomyConfig struct {
	// APIKey is the eBird API token sent as the X-eBirdApiToken header.
	// Without it the species and observations stages cannot run.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// URL is the taxonomy endpoint. The default points at the production
	// eBird API; override it only for testing against a local server.
	URL string `mapstructure:"url" yaml:"url"`
}

// ImportConfig contains per-run observation filters for the import command.
// All fields are runtime-only and come from CLI flags, not config.yaml.
type ImportConfig struct {
	// StartDate keeps only observations on or after this date (YYYY-MM-DD).
	// Empty means no lower bound.
	StartDate string `mapstructure:"start_date" yaml:"start_date"`

	// EndDate keeps only observations on or before this date (YYYY-MM-DD).
	// Empty means no upper bound.
	EndDate string `mapstructure:"end_date" yaml:"end_date"`

	// Region keeps only observations whose state code matches exactly,
	// for example "US-NY". Empty means no region filter.
	Region string `mapstructure:"region" yaml:"region"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "ebird",
			SSLMode:   "disable",
			BatchSize: 5_000, // keeps parameter count under the wire limit
		},
		Taxonomy: TaxonomyConfig{
			URL: TaxonomyURL,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
	}

	return res
}
