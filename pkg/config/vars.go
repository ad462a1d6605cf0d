package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "ebirddb"
	// TaxonomyURL is the production eBird taxonomy endpoint.
	TaxonomyURL = "https://api.ebird.org/v2/ref/taxonomy/ebird"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/ebirddb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/ebirddb by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/ebirddb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/ebirddb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
