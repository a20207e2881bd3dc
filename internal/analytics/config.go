package analytics

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds aggregation and caching parameters.
type Config struct {
	TimeZone    string `toml:"time_zone"`
	CacheTTL    string `toml:"cache_ttl"`
	RecentLimit int    `toml:"recent_limit"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	TimeZone    string
	CacheTTL    string
	RecentLimit string
}

// Location returns the configured timezone for daily trend bucketing.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (c *Config) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.TimeZone != "" {
		c.TimeZone = overlay.TimeZone
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
	if overlay.RecentLimit != 0 {
		c.RecentLimit = overlay.RecentLimit
	}
}

func (c *Config) loadDefaults() {
	if c.TimeZone == "" {
		c.TimeZone = "Local"
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "30s"
	}
	if c.RecentLimit == 0 {
		c.RecentLimit = 5
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.TimeZone != "" {
		if v := os.Getenv(env.TimeZone); v != "" {
			c.TimeZone = v
		}
	}
	if env.CacheTTL != "" {
		if v := os.Getenv(env.CacheTTL); v != "" {
			c.CacheTTL = v
		}
	}
	if env.RecentLimit != "" {
		if v := os.Getenv(env.RecentLimit); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.RecentLimit = n
			}
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid time_zone: %w", err)
	}
	if _, err := time.ParseDuration(c.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache_ttl: %w", err)
	}
	if c.RecentLimit < 1 {
		return fmt.Errorf("recent_limit must be positive: %d", c.RecentLimit)
	}
	return nil
}
