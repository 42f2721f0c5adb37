// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session"`
	Storage StorageConfig `toml:"storage"`
	Invoice InvoiceConfig `toml:"invoice"`
}

// SessionConfig maps session-related settings.
type SessionConfig struct {
	Rate *float64 `toml:"rate"`
}

// StorageConfig maps storage settings.
type StorageConfig struct {
	Path *string `toml:"path"`
}

// InvoiceConfig maps invoice rendering settings.
type InvoiceConfig struct {
	Name        *string `toml:"name"`
	Client      *string `toml:"client"`
	LatexEngine *string `toml:"latex-engine"`
}

// Template is written by the config command when no file exists yet.
const Template = `# tuibill configuration

[session]
# Hourly rate used when none is given on the command line.
# rate = 20.0

[storage]
# Billing store. Paths ending in .db, .sqlite or .sqlite3 use SQLite.
# path = "~/.local/share/tuibill/bills.json"

[invoice]
# name = "Your Name"
# client = "Client Ltd"
# latex-engine = "tectonic"
`

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// WriteTemplate creates the config file with Template unless it already
// exists. It reports whether a file was written.
func WriteTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
