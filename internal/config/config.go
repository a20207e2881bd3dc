// Package config loads and finalizes the layered TOML configuration for the
// IntelliSort service: base config.toml, optional environment overlay, then
// defaults, environment variable overrides, and validation per section.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/intellisort/intellisort/internal/analytics"
	"github.com/intellisort/intellisort/internal/classifier"
	"github.com/intellisort/intellisort/internal/identity"
	"github.com/intellisort/intellisort/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvIntelliSortEnv             = "INTELLISORT_ENV"
	EnvIntelliSortShutdownTimeout = "INTELLISORT_SHUTDOWN_TIMEOUT"
	EnvIntelliSortVersion         = "INTELLISORT_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "INTELLISORT_DB_HOST",
	Port:            "INTELLISORT_DB_PORT",
	Name:            "INTELLISORT_DB_NAME",
	User:            "INTELLISORT_DB_USER",
	Password:        "INTELLISORT_DB_PASSWORD",
	SSLMode:         "INTELLISORT_DB_SSL_MODE",
	MaxOpenConns:    "INTELLISORT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "INTELLISORT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "INTELLISORT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "INTELLISORT_DB_CONN_TIMEOUT",
}

var classifierEnv = &classifier.Env{
	BaseURL: "INTELLISORT_CLASSIFIER_BASE_URL",
	Timeout: "INTELLISORT_CLASSIFIER_TIMEOUT",
}

var authEnv = &identity.Env{
	Issuer:   "INTELLISORT_AUTH_ISSUER",
	ClientID: "INTELLISORT_AUTH_CLIENT_ID",
}

var analyticsEnv = &analytics.Env{
	TimeZone:    "INTELLISORT_ANALYTICS_TIME_ZONE",
	CacheTTL:    "INTELLISORT_ANALYTICS_CACHE_TTL",
	RecentLimit: "INTELLISORT_ANALYTICS_RECENT_LIMIT",
}

// Config is the root configuration for the IntelliSort service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Classifier      classifier.Config `toml:"classifier"`
	Auth            identity.Config   `toml:"auth"`
	Analytics       analytics.Config  `toml:"analytics"`
	API             APIConfig         `toml:"api"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the INTELLISORT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvIntelliSortEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Classifier.Merge(&overlay.Classifier)
	c.Auth.Merge(&overlay.Auth)
	c.Analytics.Merge(&overlay.Analytics)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Analytics.Finalize(analyticsEnv); err != nil {
		return fmt.Errorf("analytics: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvIntelliSortShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvIntelliSortVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvIntelliSortEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
