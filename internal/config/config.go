package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config carries the store connection settings and the message edit-window
// parameters consumed by the status package.
type Config struct {
	DatabaseDSN  string `yaml:"database_dsn" env:"CHATSTORE_DSN"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"CHATSTORE_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns int    `yaml:"max_idle_conns" env:"CHATSTORE_MAX_IDLE_CONNS" env-default:"5"`

	// MaxEditAge is the window, in seconds since creation, during which a
	// message stays editable by its author.
	MaxEditAge int64 `yaml:"max_edit_age" env:"CHATSTORE_MAX_EDIT_AGE" env-default:"600"`

	// ClockOffset is the client/server clock delta in seconds, added to
	// message creation times when deriving status flags.
	ClockOffset int64 `yaml:"clock_offset" env:"CHATSTORE_CLOCK_OFFSET" env-default:"0"`
}

// Load reads the configuration from the environment, loading a .env file
// first if one is present.
func Load() (*Config, error) {
	godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadPath reads the configuration from a yaml file, with environment
// variables taking precedence.
func LoadPath(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database DSN cannot be empty")
	}
	if c.MaxEditAge <= 0 {
		return fmt.Errorf("max edit age must be positive")
	}
	return nil
}
