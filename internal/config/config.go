// Package config resolves runtime settings for the calibra CLI.
//
// Sources, lowest precedence first:
//  1. built-in defaults
//  2. a .env file in the working directory (never overrides real env vars)
//  3. CALIBRA_* environment variables
//  4. a CUE policy file (CALIBRA_POLICY or --policy)
//  5. command-line flags, applied by the CLI
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds resolved settings.
type Config struct {
	Database      string `env:"CALIBRA_DB"             envDefault:"assets.db"`
	ThresholdDays int    `env:"CALIBRA_THRESHOLD_DAYS" envDefault:"180"`
	PolicyFile    string `env:"CALIBRA_POLICY"`
	LogLevel      string `env:"CALIBRA_LOG_LEVEL"      envDefault:"info"`
}

// Load reads the optional dotenv file and the environment. When dotenvPath
// is empty no file is read. A missing dotenv file is not an error.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.PolicyFile != "" {
		p, err := LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return Config{}, err
		}
		cfg.ThresholdDays = p.ThresholdDays
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.ThresholdDays < 0 {
		return fmt.Errorf("threshold must be zero or more days, got %d", c.ThresholdDays)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
