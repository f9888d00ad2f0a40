// Package config handles the XDG configuration directory, config.yaml and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"taskflow/internal/kv"
	"taskflow/internal/notify"
)

const (
	// AppName is the application directory name.
	AppName = "taskflow"

	// ConfigFile is the optional settings file in the config directory.
	ConfigFile = "config.yaml"

	// EnvFile is the optional dotenv file in the config directory.
	EnvFile = ".env"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DefaultServeAddr is where `taskflow serve` listens by default.
	DefaultServeAddr = "127.0.0.1:8787"

	// DefaultStorageKey is the slot key the task list lives under.
	DefaultStorageKey = "taskflow-tasks"
)

// Environment variables that override config.yaml.
const (
	EnvStorageBackend = "TASKFLOW_STORAGE_BACKEND"
	EnvStoragePath    = "TASKFLOW_STORAGE_PATH"
	EnvLogLevel       = "TASKFLOW_LOG_LEVEL"
	EnvServeAddr      = "TASKFLOW_SERVE_ADDR"
	EnvAPIKey         = "TASKFLOW_API_KEY"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	Storage  StorageConfig `yaml:"storage"`
	Notify   NotifyConfig  `yaml:"notify"`
	Serve    ServeConfig   `yaml:"serve"`
	LogLevel string        `yaml:"log_level"`
}

// StorageConfig selects where the task list is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file | sqlite
	Path    string `yaml:"path"`
	Key     string `yaml:"key"`
}

// NotifyConfig tunes notifications.
type NotifyConfig struct {
	DismissAfter time.Duration `yaml:"dismiss_after"`
}

// ServeConfig configures the local HTTP API.
type ServeConfig struct {
	Addr   string `yaml:"addr"`
	APIKey string `yaml:"api_key"`
}

// New creates a Config with the default or specified config directory,
// then applies config.yaml, .env and environment overrides.
// If configDir is empty, uses XDG_CONFIG_HOME/taskflow or $HOME/.config/taskflow.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", ConfigFile, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", ConfigFile, err)
	}
	return nil
}

// loadEnv reads .env from the config directory into the process
// environment (existing variables win), then applies TASKFLOW_* overrides.
func (c *Config) loadEnv() error {
	envPath := filepath.Join(c.Dir, EnvFile)
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load %s: %w", EnvFile, err)
		}
	}

	if v := os.Getenv(EnvStorageBackend); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv(EnvStoragePath); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvServeAddr); v != "" {
		c.Serve.Addr = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Serve.APIKey = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = kv.BackendFile
	}
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case kv.BackendSQLite:
			c.Storage.Path = filepath.Join(c.Dir, "taskflow.db")
		default:
			c.Storage.Path = filepath.Join(c.Dir, "data")
		}
	}
	if c.Storage.Key == "" {
		c.Storage.Key = DefaultStorageKey
	}
	if c.Notify.DismissAfter <= 0 {
		c.Notify.DismissAfter = notify.DefaultDismissAfter
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultServeAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case kv.BackendFile, kv.BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", kv.BackendFile, kv.BackendSQLite, c.Storage.Backend)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Level returns the effective log level. Debug forces slog.LevelDebug.
func (c *Config) Level() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
