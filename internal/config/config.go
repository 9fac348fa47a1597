// ABOUTME: Configuration loader for the autoclick CLI
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment selects one of the two fixed backend targets
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Fixed backend endpoints per environment
const (
	DevelopmentAPIURL = "http://localhost:3001"
	ProductionAPIURL  = "https://autoclick-backend.vercel.app"
)

// Environment variable names
const (
	EnvEnvironment    = "AUTOCLICK_ENV"
	EnvAPIURL         = "AUTOCLICK_API_URL"
	EnvMasterPassword = "AUTOCLICK_MASTER_PASSWORD"
	EnvPollInterval   = "AUTOCLICK_POLL_INTERVAL"
	EnvHTTPTimeout    = "AUTOCLICK_HTTP_TIMEOUT"
	EnvConfigDir      = "AUTOCLICK_CONFIG_DIR"
)

type Config struct {
	Environment    Environment
	APIURL         string        // explicit override; empty means use the environment's URL
	MasterPassword string        // session-scoped; never written to disk
	PollInterval   time.Duration // status poll period (default 1s)
	HTTPTimeout    time.Duration // per-request timeout (default 30s)
	ConfigDir      string        // where debug.log lives
}

// Load reads an optional .env file from the working directory, then the
// process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Environment:    Environment(strings.ToLower(getEnv(EnvEnvironment, string(Production)))),
		APIURL:         ensureScheme(os.Getenv(EnvAPIURL)),
		MasterPassword: strings.TrimSpace(os.Getenv(EnvMasterPassword)),
		PollInterval:   getEnvDuration(EnvPollInterval, time.Second),
		HTTPTimeout:    getEnvDuration(EnvHTTPTimeout, 30*time.Second),
		ConfigDir:      getEnv(EnvConfigDir, DefaultConfigDir()),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.Environment {
	case Development, Production:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvEnvironment, Development, Production, c.Environment)
	}
	if c.PollInterval < 100*time.Millisecond || c.PollInterval > time.Minute {
		return fmt.Errorf("%s must be between 100ms and 1m, got %s", EnvPollInterval, c.PollInterval)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", EnvHTTPTimeout, c.HTTPTimeout)
	}
	return nil
}

// BaseURL returns the override when set, otherwise the environment's endpoint
func (c *Config) BaseURL() string {
	if c.APIURL != "" {
		return c.APIURL
	}
	return BaseURLFor(c.Environment)
}

// BaseURLFor returns the fixed endpoint for an environment
func BaseURLFor(env Environment) string {
	if env == Development {
		return DevelopmentAPIURL
	}
	return ProductionAPIURL
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "autoclick")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "autoclick")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("1500ms") or plain seconds ("2")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs := getEnvInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
