package config_test

import (
	"path/filepath"
	"testing"

	"github.com/gnames/ebirddb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "ebirddb"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "ebirddb"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "ebirddb", "logs"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		// Database defaults
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "postgres", cfg.Database.Password)
		assert.Equal(t, "ebird", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 5_000, cfg.Database.BatchSize)

		// Taxonomy defaults
		assert.Equal(t, config.TaxonomyURL, cfg.Taxonomy.URL)
		assert.Equal(t, "", cfg.Taxonomy.APIKey)

		// Import filters default to off
		assert.Equal(t, "", cfg.Import.StartDate)
		assert.Equal(t, "", cfg.Import.EndDate)
		assert.Equal(t, "", cfg.Import.Region)

		// Log defaults
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)
	})
}

func TestOptionDatabaseHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid host",
			input:    "db.example.com",
			expected: "db.example.com",
		},
		{
			name:     "trims whitespace",
			input:    "  db.example.com  ",
			expected: "db.example.com",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "localhost", // Should keep default
		},
		{
			name:     "ignores whitespace-only",
			input:    "   ",
			expected: "localhost", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseHost(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Host)
		})
	}
}

func TestOptionDatabaseSSLMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid ssl mode - require",
			input:    "require",
			expected: "require",
		},
		{
			name:     "sets valid ssl mode - verify-full",
			input:    "verify-full",
			expected: "verify-full",
		},
		{
			name:     "normalizes to lowercase",
			input:    "REQUIRE",
			expected: "require",
		},
		{
			name:     "ignores invalid value",
			input:    "invalid",
			expected: "disable", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseSSLMode(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.SSLMode)
		})
	}
}

func TestOptionTaxonomyAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid key",
			input:    "abc123def",
			expected: "abc123def",
		},
		{
			name:     "trims whitespace",
			input:    "  abc123def  ",
			expected: "abc123def",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptTaxonomyAPIKey(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Taxonomy.APIKey)
		})
	}
}

func TestOptionImportDates(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid date",
			input:    "2024-01-15",
			expected: "2024-01-15",
		},
		{
			name:     "ignores bad format",
			input:    "01/15/2024",
			expected: "", // Should keep default
		},
		{
			name:     "ignores impossible date",
			input:    "2024-13-45",
			expected: "", // Should keep default
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptImportStartDate(tt.input)})
			assert.Equal(t, tt.expected, cfg.Import.StartDate)

			cfg = config.New()
			cfg.Update([]config.Option{config.OptImportEndDate(tt.input)})
			assert.Equal(t, tt.expected, cfg.Import.EndDate)
		})
	}
}

func TestOptionImportRegion(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptImportRegion("US-NY")})
	assert.Equal(t, "US-NY", cfg.Import.Region)

	cfg = config.New()
	cfg.Update([]config.Option{config.OptImportRegion("  ")})
	assert.Equal(t, "", cfg.Import.Region)
}

func TestOptionLogFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid format - text",
			input:    "text",
			expected: "text",
		},
		{
			name:     "sets valid format - tint",
			input:    "tint",
			expected: "tint",
		},
		{
			name:     "ignores invalid value",
			input:    "xml",
			expected: "json", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogFormat(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Format)
		})
	}
}

func TestOptionBatchSize(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid batch size",
			input:    10000,
			expected: 10000,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 5_000, // Should keep default
		},
		{
			name:     "ignores negative",
			input:    -1000,
			expected: 5_000, // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseBatchSize(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.BatchSize)
		})
	}
}

func TestMultipleOptions(t *testing.T) {
	t.Run("applies multiple options in order", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptDatabaseHost("custom.host.com"),
			config.OptDatabasePort(3306),
			config.OptDatabaseUser("myuser"),
			config.OptTaxonomyAPIKey("key123"),
			config.OptLogLevel("debug"),
		}

		cfg.Update(opts)

		assert.Equal(t, "custom.host.com", cfg.Database.Host)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, "myuser", cfg.Database.User)
		assert.Equal(t, "key123", cfg.Taxonomy.APIKey)
		assert.Equal(t, "debug", cfg.Log.Level)

		// Unchanged fields keep defaults
		assert.Equal(t, "postgres", cfg.Database.Password)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptDatabaseHost("first.host.com"),
			config.OptDatabaseHost("second.host.com"),
		}

		cfg.Update(opts)

		assert.Equal(t, "second.host.com", cfg.Database.Host)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		// Create config with custom values
		original := config.New()
		opts := []config.Option{
			config.OptDatabaseHost("test.host.com"),
			config.OptDatabasePort(3306),
			config.OptDatabaseUser("testuser"),
			config.OptDatabasePassword("testpass"),
			config.OptDatabaseDatabase("testdb"),
			config.OptDatabaseSSLMode("require"),
			config.OptDatabaseBatchSize(10000),
			config.OptTaxonomyAPIKey("key123"),
			config.OptTaxonomyURL("http://localhost:8080/taxonomy"),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
		}
		original.Update(opts)

		// Convert to options and apply to new config
		convertedOpts := original.ToOptions()
		newCfg := config.New()
		newCfg.Update(convertedOpts)

		// Verify persistent fields match
		assert.Equal(t, original.Database.Host, newCfg.Database.Host)
		assert.Equal(t, original.Database.Port, newCfg.Database.Port)
		assert.Equal(t, original.Database.User, newCfg.Database.User)
		assert.Equal(t, original.Database.Password, newCfg.Database.Password)
		assert.Equal(t, original.Database.Database, newCfg.Database.Database)
		assert.Equal(t, original.Database.SSLMode, newCfg.Database.SSLMode)
		assert.Equal(t, original.Database.BatchSize, newCfg.Database.BatchSize)
		assert.Equal(t, original.Taxonomy.APIKey, newCfg.Taxonomy.APIKey)
		assert.Equal(t, original.Taxonomy.URL, newCfg.Taxonomy.URL)
		assert.Equal(t, original.Log.Level, newCfg.Log.Level)
		assert.Equal(t, original.Log.Format, newCfg.Log.Format)
		assert.Equal(t, original.Log.Destination, newCfg.Log.Destination)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptImportStartDate("2024-01-01"),
			config.OptImportEndDate("2024-12-31"),
			config.OptImportRegion("US-NY"),
		})

		// These fields should not be in ToOptions() output
		opts := cfg.ToOptions()
		newCfg := config.New()
		newCfg.Update(opts)

		// Runtime fields should remain at defaults in newCfg
		assert.Equal(t, "", newCfg.HomeDir)
		assert.Equal(t, "", newCfg.Import.StartDate)
		assert.Equal(t, "", newCfg.Import.EndDate)
		assert.Equal(t, "", newCfg.Import.Region)
	})
}
