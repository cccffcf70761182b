package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds overrides read from the environment. Zero values mean unset.
type EnvConfig struct {
	DBPath          string        `env:"EXAMPULSE_DB_PATH"`
	RefreshInterval time.Duration `env:"EXAMPULSE_REFRESH_INTERVAL"`
	Range           string        `env:"EXAMPULSE_RANGE"`
	Retention       int           `env:"EXAMPULSE_RETENTION"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv reads the EXAMPULSE_* overrides.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := ParseEnv(&cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}
