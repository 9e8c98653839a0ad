package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all SDK configuration read from the environment
type Config struct {
	Env string `env:"ENV" envDefault:"development"` // "development" or "production"

	// API access
	APIKey     string        `env:"PLATFORM_API_KEY"`
	BaseURL    string        `env:"PLATFORM_BASE_URL" envDefault:"https://api.platform.dev/v1"`
	Timeout    time.Duration `env:"PLATFORM_TIMEOUT" envDefault:"60s"`
	MaxRetries int           `env:"PLATFORM_MAX_RETRIES" envDefault:"2"`

	// Logging
	LogLevel string `env:"PLATFORM_LOG_LEVEL" envDefault:"info"`

	// Local fake API (cmd/mockserver)
	MockAddr string `env:"PLATFORM_MOCK_ADDR" envDefault:":4010"`
}

var (
	cfg  *Config
	once sync.Once
)

// Get returns the global configuration (singleton).
// A malformed variable falls back to the defaults rather than failing the
// process; call Load to see the error.
func Get() *Config {
	once.Do(func() {
		loaded, err := Load()
		if err != nil {
			loaded = Defaults()
		}
		cfg = loaded
	})
	return cfg
}

// Load reads a .env file when one exists and parses the environment.
func Load() (*Config, error) {
	// Missing .env is the common case
	_ = godotenv.Load()

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// Defaults returns a Config populated only from envDefault tags.
func Defaults() *Config {
	c := &Config{}
	_ = env.ParseWithOptions(c, env.Options{Environment: map[string]string{}})
	return c
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}
