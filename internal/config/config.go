// Package config loads the optional transtats config file.
//
// Settings resolve in three layers: built-in defaults, then the TOML file at
// $XDG_CONFIG_HOME/transtats/config.toml (~/.config/transtats/config.toml by
// default), then command-line flags. The file is optional; a missing file
// just yields the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/deepin-community/transtats/pkg/aptsrc"
	"github.com/deepin-community/transtats/pkg/locale"
	"github.com/deepin-community/transtats/pkg/transutils"
)

// appName is the application name used for config and cache directories.
const appName = "transtats"

// Config holds the tool's settings.
type Config struct {
	// SourceDir is where source trees are downloaded.
	SourceDir string `toml:"source_dir"`

	// Languages is the comma-separated default language selection.
	Languages string `toml:"languages"`

	// AptCommand invokes the package manager; shell-style quoting is
	// honored, so "sudo apt" works.
	AptCommand string `toml:"apt_command"`

	// StatsCommand invokes the translation statistics utility.
	StatsCommand string `toml:"stats_command"`

	// CacheTTLHours controls how long cached stats results stay valid.
	// Zero disables expiry.
	CacheTTLHours int `toml:"cache_ttl_hours"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SourceDir:     aptsrc.DefaultSourceDir,
		Languages:     locale.DefaultList,
		AptCommand:    aptsrc.DefaultCommand,
		StatsCommand:  transutils.DefaultCommand,
		CacheTTLHours: 24,
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file, layering it over the defaults. A missing file
// is not an error.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a specific config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
