// Package config loads tvratings settings from ~/.tvratings/config.toml,
// an optional .env file, and TVRATINGS_* environment variables, in that
// order of increasing precedence.
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
	"github.com/pelletier/go-toml/v2"
)

// Deployment environments. Anything else is treated as production.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Service endpoints per environment.
const (
	LocalDataServiceURL      = "http://localhost:8001"
	ProductionDataServiceURL = "https://db-service"
	LocalJobServiceURL       = "http://localhost:8002"
	ProductionJobServiceURL  = "https://job-service"
)

// Environment variable names.
const (
	envEnv          = "TVRATINGS_ENV"
	envDataURL      = "TVRATINGS_DATA_URL"
	envJobURL       = "TVRATINGS_JOB_URL"
	envFetchTimeout = "TVRATINGS_FETCH_TIMEOUT"
	envDataDir      = "TVRATINGS_DATA_DIR"
)

// Config is the persistent application configuration.
type Config struct {
	// Env selects default endpoints: development or test use localhost.
	Env string `toml:"env"`

	// Explicit endpoints override the Env defaults when set.
	DataServiceURL string `toml:"data_service_url,omitempty"`
	JobServiceURL  string `toml:"job_service_url,omitempty"`

	// FetchTimeoutSeconds bounds a ratings request. 0 leaves it to the transport.
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`

	// HistoryLimit is how many past searches the form can recall.
	HistoryLimit int `toml:"history_limit"`

	// DataDir holds the history database and event log.
	DataDir string `toml:"data_dir,omitempty"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Env:          EnvProduction,
		HistoryLimit: 50,
	}
}

// DefaultDir returns ~/.tvratings.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tvratings"
	}
	return filepath.Join(home, ".tvratings")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// Load reads the config at path (DefaultPath when empty), then applies
// .env and environment overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.Env = normalizeEnv(cfg.Env)
	}

	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads .env from the working directory when present.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays TVRATINGS_* variables onto c.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(envEnv); v != "" {
		c.Env = normalizeEnv(v)
	}
	if v := os.Getenv(envDataURL); v != "" {
		c.DataServiceURL = v
	}
	if v := os.Getenv(envJobURL); v != "" {
		c.JobServiceURL = v
	}
	if v := os.Getenv(envDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(envFetchTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 0 {
			return fmt.Errorf("%s: want non-negative seconds, got %q", envFetchTimeout, v)
		}
		c.FetchTimeoutSeconds = secs
	}
	return nil
}

func normalizeEnv(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Local reports whether c targets the local development endpoints.
func (c *Config) Local() bool {
	env := normalizeEnv(c.Env)
	return env == EnvDevelopment || env == EnvTest
}

// DataURL returns the data service base URL.
func (c *Config) DataURL() string {
	if c.DataServiceURL != "" {
		return c.DataServiceURL
	}
	if c.Local() {
		return LocalDataServiceURL
	}
	return ProductionDataServiceURL
}

// JobURL returns the job service base URL.
func (c *Config) JobURL() string {
	if c.JobServiceURL != "" {
		return c.JobServiceURL
	}
	if c.Local() {
		return LocalJobServiceURL
	}
	return ProductionJobServiceURL
}

// FetchTimeout returns the ratings request timeout, 0 for none.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Dir returns the data directory.
func (c *Config) Dir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return DefaultDir()
}

// DBPath returns the search history database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.Dir(), "tvratings.db")
}

// EventLogPath returns the JSONL event log path.
func (c *Config) EventLogPath() string {
	return filepath.Join(c.Dir(), "tvratings.events.jsonl")
}

// Save writes c to path (DefaultPath when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
