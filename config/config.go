package config

import (
	"os"
	"path/filepath"
)

// Config holds the application runtime configuration.
type Config struct {
	// Path to the sqlite database file.
	DBPath string

	// Listen address of the local web UI.
	Addr string

	// IANA timezone name; empty means the system local zone.
	Timezone string
}

// DefaultConfig returns the default configuration, creating the data
// directory under the user home if needed.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".daytrack", "daytrack.db")
	os.MkdirAll(filepath.Dir(dbPath), 0755)

	return &Config{
		DBPath: dbPath,
		// Bind explicitly to localhost to avoid firewall prompts.
		Addr: "127.0.0.1:8080",
	}
}
