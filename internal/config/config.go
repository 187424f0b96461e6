// Package config loads skyplan's configuration from a YAML file, then
// applies SKYPLAN_* environment overrides and defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr      string `yaml:"addr"`
		AuthToken string `yaml:"auth_token"`
	} `yaml:"server"`
	EOP struct {
		SourceURLs  []string `yaml:"source_urls"`
		RefreshCron string   `yaml:"refresh_cron"`
		CachePath   string   `yaml:"cache_path"`
		SQLitePath  string   `yaml:"sqlite_path"`
	} `yaml:"eop"`
	Time struct {
		TAIMinusUTC float64 `yaml:"tai_minus_utc"`
	} `yaml:"time"`
	Stream struct {
		MaxPerIP        int     `yaml:"max_per_ip"`
		MaxTotal        int     `yaml:"max_total"`
		IntervalSeconds float64 `yaml:"interval_seconds"`
	} `yaml:"stream"`
}

// Load reads config from a YAML file (missing file is fine), then applies
// environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SKYPLAN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SKYPLAN_AUTH_TOKEN"); v != "" {
		cfg.Server.AuthToken = v
	}
	if v := os.Getenv("SKYPLAN_EOP_URL"); v != "" {
		cfg.EOP.SourceURLs = []string{v}
	}
	if v := os.Getenv("SKYPLAN_EOP_CRON"); v != "" {
		cfg.EOP.RefreshCron = v
	}
	if v := os.Getenv("SKYPLAN_EOP_CACHE"); v != "" {
		cfg.EOP.CachePath = v
	}
	if v := os.Getenv("SKYPLAN_SQLITE_PATH"); v != "" {
		cfg.EOP.SQLitePath = v
	}
	if v := os.Getenv("SKYPLAN_TAI_MINUS_UTC"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Time.TAIMinusUTC = f
		}
	}
	if v := os.Getenv("SKYPLAN_STREAM_MAX_PER_IP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Stream.MaxPerIP = n
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.EOP.RefreshCron == "" {
		cfg.EOP.RefreshCron = "0 17 * * *" // daily, after IERS publishes
	}
	if cfg.EOP.SQLitePath == "" {
		cfg.EOP.SQLitePath = "data/skyplan.db"
	}
	if cfg.Time.TAIMinusUTC == 0 {
		cfg.Time.TAIMinusUTC = 37
	}
	if cfg.Stream.MaxPerIP == 0 {
		cfg.Stream.MaxPerIP = 4
	}
	if cfg.Stream.MaxTotal == 0 {
		cfg.Stream.MaxTotal = 1000
	}
	if cfg.Stream.IntervalSeconds == 0 {
		cfg.Stream.IntervalSeconds = 1
	}

	return cfg, nil
}

// Validate checks tunables that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Time.TAIMinusUTC < 0 {
		return fmt.Errorf("time.tai_minus_utc must be non-negative")
	}
	if c.Stream.MaxPerIP < 1 {
		return fmt.Errorf("stream.max_per_ip must be at least 1")
	}
	if c.Stream.MaxTotal < c.Stream.MaxPerIP {
		return fmt.Errorf("stream.max_total must be at least stream.max_per_ip")
	}
	if c.Stream.IntervalSeconds <= 0 {
		return fmt.Errorf("stream.interval_seconds must be positive")
	}
	return nil
}
