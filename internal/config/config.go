// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings every command shares. Command-line flags
// override these.
type Config struct {
	// DB is the SQLite database path.
	DB string `env:"CRITTERKEEP_DB" envDefault:"critterkeep.db"`

	// Seed seeds the random factory of a new database. Zero draws a
	// random seed. An existing database keeps the seed it was created with.
	Seed int64 `env:"CRITTERKEEP_SEED"`

	// Rules is an optional CUE file overriding balance rules.
	Rules string `env:"CRITTERKEEP_RULES"`

	// Catalog is an optional YAML file replacing the item catalog.
	Catalog string `env:"CRITTERKEEP_CATALOG"`

	// LogLevel is one of DEBUG, INFO, WARN or ERROR.
	LogLevel slog.Level `env:"CRITTERKEEP_LOG_LEVEL" envDefault:"INFO"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable zero value.
func (c Config) Validate() error {
	if c.DB == "" {
		return errors.New("config: database path is required")
	}
	return nil
}
