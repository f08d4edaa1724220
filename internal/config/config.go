// Package config defines the drafter's process configuration.
package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches the log handler to JSON output.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir is the base for every relative data path below.
	DataDir string `koanf:"data_dir"`

	HeroesDir     string `koanf:"heroes_dir"`
	RolesFile     string `koanf:"roles_file"`
	SynergiesFile string `koanf:"synergies_file"`

	// DefaultLimit is used when a request omits limit; MaxLimit caps it.
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// DatasetFile is the scraped dataset whose modification time decides
	// freshness.
	DatasetFile   string        `koanf:"dataset_file"`
	DatasetMaxAge time.Duration `koanf:"dataset_max_age"`

	// Watch reloads the catalog when the heroes directory changes.
	Watch         bool          `koanf:"watch"`
	WatchDebounce time.Duration `koanf:"watch_debounce"`

	// FreshnessSchedule is a cron spec for periodic freshness checks. Empty
	// disables the schedule.
	FreshnessSchedule string `koanf:"freshness_schedule"`

	// RefreshCommand is the whitespace separated command line that rebuilds
	// the data directory. Empty disables refresh.
	RefreshCommand       string        `koanf:"refresh_command"`
	RefreshTimeout       time.Duration `koanf:"refresh_timeout"`
	RefreshRatePerMinute int           `koanf:"refresh_rate_per_minute"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		DataDir:              "data",
		HeroesDir:            "heroes",
		RolesFile:            "roles.json",
		SynergiesFile:        "synergies.json",
		DefaultLimit:         10,
		MaxLimit:             50,
		DatasetFile:          "dota_heroes_stratz.json",
		DatasetMaxAge:        7 * 24 * time.Hour,
		WatchDebounce:        500 * time.Millisecond,
		FreshnessSchedule:    "@hourly",
		RefreshTimeout:       10 * time.Minute,
		RefreshRatePerMinute: 1,
	}
}

// HeroesPath resolves HeroesDir against DataDir.
func (c *Config) HeroesPath() string { return c.resolve(c.HeroesDir) }

// RolesPath resolves RolesFile against DataDir.
func (c *Config) RolesPath() string { return c.resolve(c.RolesFile) }

// SynergiesPath resolves SynergiesFile against DataDir.
func (c *Config) SynergiesPath() string { return c.resolve(c.SynergiesFile) }

// DatasetPath resolves DatasetFile against DataDir.
func (c *Config) DatasetPath() string { return c.resolve(c.DatasetFile) }

// RefreshArgs splits RefreshCommand into argv. It returns nil when refresh
// is disabled.
func (c *Config) RefreshArgs() []string {
	return strings.Fields(c.RefreshCommand)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}
