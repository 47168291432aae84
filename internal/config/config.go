// Package config loads dashboard configuration from a YAML file with
// environment-variable overrides on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full dashboard configuration.
type Config struct {
	// FeedURL is the published CSV export to poll. Required.
	FeedURL string `yaml:"feed_url"`
	// RelayPrefix is an optional CORS-relay URL prepended to FeedURL.
	RelayPrefix string `yaml:"relay_prefix"`

	PollInterval time.Duration `yaml:"poll_interval"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	SignalCount  int           `yaml:"signal_count"`

	ListenAddr  string `yaml:"listen_addr"`
	ChartWidth  int    `yaml:"chart_width"`
	ChartHeight int    `yaml:"chart_height"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		PollInterval: 60 * time.Second,
		FetchTimeout: 15 * time.Second,
		SignalCount:  10,
		ListenAddr:   ":8080",
		ChartWidth:   1024,
		ChartHeight:  400,
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides config fields from DASHBOARD_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DASHBOARD_FEED_URL"); v != "" {
		c.FeedURL = v
	}
	if v := os.Getenv("DASHBOARD_RELAY_PREFIX"); v != "" {
		c.RelayPrefix = v
	}
	if v := os.Getenv("DASHBOARD_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DASHBOARD_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollInterval = d
		}
	}
	if v := os.Getenv("DASHBOARD_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.FetchTimeout = d
		}
	}
}

// Validate checks the configuration is runnable.
func (c Config) Validate() error {
	if c.FeedURL == "" {
		return errors.New("config: feed_url is required")
	}
	if c.PollInterval <= 0 {
		return errors.New("config: poll_interval must be positive")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("config: fetch_timeout must be positive")
	}
	if c.FetchTimeout > c.PollInterval {
		return fmt.Errorf("config: fetch_timeout %s exceeds poll_interval %s", c.FetchTimeout, c.PollInterval)
	}
	return nil
}
