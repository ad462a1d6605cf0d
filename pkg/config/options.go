package config

import (
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of records per INSERT batch.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptTaxonomyAPIKey sets the eBird API token.
func OptTaxonomyAPIKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Taxonomy API Key", s) {
			c.Taxonomy.APIKey = s
		}
	}
}

// OptTaxonomyURL overrides the taxonomy endpoint URL.
func OptTaxonomyURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Taxonomy URL", s) {
			c.Taxonomy.URL = s
		}
	}
}

// OptImportStartDate sets the lower observation-date bound (YYYY-MM-DD).
// Runtime-only field - not in ToOptions().
func OptImportStartDate(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidDate("Start Date", s) {
			c.Import.StartDate = s
		}
	}
}

// OptImportEndDate sets the upper observation-date bound (YYYY-MM-DD).
// Runtime-only field - not in ToOptions().
func OptImportEndDate(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidDate("End Date", s) {
			c.Import.EndDate = s
		}
	}
}

// OptImportRegion sets the state/region code filter, for example "US-NY".
// Runtime-only field - not in ToOptions().
func OptImportRegion(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Region", s) {
			c.Import.Region = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stdin", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

func isValidDate(name, s string) bool {
	if s == "" {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
		return false
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		gn.Warn(
			"<em>%s</em> '%s' is not a YYYY-MM-DD date, ignoring",
			name, s,
		)
		return false
	}
	return true
}
