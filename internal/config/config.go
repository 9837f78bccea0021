package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string `env:"PORT" envDefault:"3000"`

	// Database configuration
	DBType            string `env:"DB_TYPE" envDefault:"sqlite"` // mysql, postgres, sqlite, sqlite-pure, sqlserver
	DBHost            string `env:"DB_HOST" envDefault:"localhost"`
	DBPort            string `env:"DB_PORT" envDefault:"5432"`
	DBDatabase        string `env:"DB_DATABASE"`
	DBUser            string `env:"DB_USER"`
	DBPassword        string `env:"DB_PASSWORD"`
	DBConnectionLimit int    `env:"DB_CONNECTION_LIMIT" envDefault:"5"`
	DBLogLevel        string `env:"DB_LOG_LEVEL" envDefault:"warn"`

	// Logging
	LogMode string `env:"LOG_MODE" envDefault:"development"`

	// Resonance configuration
	Timezone       string `env:"RESONANCE_TIMEZONE" envDefault:"UTC"`
	SeedCategories bool   `env:"SEED_CATEGORIES" envDefault:"true"`

	// Realtime broadcast, disabled when RedisAddr is empty
	RedisAddr    string `env:"REDIS_ADDR"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"resonance:constellation"`
}

// Load loads configuration from environment variables.
// When ENV_FILE is set, that file is loaded into the environment first.
func Load() (*Config, error) {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the required fields and value ranges
func (c *Config) Validate() error {
	c.DBType = strings.ToLower(strings.TrimSpace(c.DBType))

	if c.DBDatabase == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}
	switch c.DBType {
	case "sqlite", "sqlite-pure":
	case "mysql", "mariadb", "postgres", "postgresql", "sqlserver", "mssql":
		if c.DBUser == "" {
			return fmt.Errorf("DB_USER is required for %s", c.DBType)
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DBType)
	}
	if c.DBConnectionLimit < 1 {
		return fmt.Errorf("DB_CONNECTION_LIMIT must be positive, got %d", c.DBConnectionLimit)
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location resolves the time zone used to pick "today" for callers
// that do not send a day.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid RESONANCE_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
