package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

const (
	envPrefix  = "DRAFTER_"
	envConfig  = envPrefix + "CONFIG"
	envDotFile = envPrefix + "ENV_FILE"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DRAFTER_CONFIG is set
//  3. env (prefix DRAFTER_), including values from a .env file when present
func Load(_ context.Context) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// DRAFTER_MAX_LIMIT -> max_limit. Underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv reads DRAFTER_ENV_FILE (default .env) into the process
// environment. A missing file is not an error; variables already set win.
func loadDotEnv() error {
	path := os.Getenv(envDotFile)
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case !logLevels[strings.ToLower(c.LogLevel)]:
		return invalid("unknown log_level %q", c.LogLevel)
	case c.HeroesDir == "":
		return invalid("heroes_dir must not be empty")
	case c.RolesFile == "":
		return invalid("roles_file must not be empty")
	case c.SynergiesFile == "":
		return invalid("synergies_file must not be empty")
	case c.MaxLimit <= 0:
		return invalid("max_limit must be positive, got %d", c.MaxLimit)
	case c.DefaultLimit < 0 || c.DefaultLimit > c.MaxLimit:
		return invalid("default_limit must be within [0, %d], got %d", c.MaxLimit, c.DefaultLimit)
	case c.DatasetMaxAge <= 0:
		return invalid("dataset_max_age must be positive")
	case c.WatchDebounce < 0:
		return invalid("watch_debounce must not be negative")
	case c.RefreshTimeout <= 0:
		return invalid("refresh_timeout must be positive")
	case c.RefreshRatePerMinute < 0:
		return invalid("refresh_rate_per_minute must not be negative")
	}
	if c.FreshnessSchedule != "" {
		if _, err := cron.ParseStandard(c.FreshnessSchedule); err != nil {
			return invalid("freshness_schedule %q: %v", c.FreshnessSchedule, err)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
