// Package models defines data structures for configuration, records, and job results.
package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultUserAgents is a minimal pool used when no UA file is configured.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// defaultViewports covers common desktop sizes plus one mobile size.
var defaultViewports = []Viewport{
	{Width: 1366, Height: 768},
	{Width: 1440, Height: 900},
	{Width: 1536, Height: 864},
	{Width: 1280, Height: 800},
	{Width: 360, Height: 800},
}

// Viewport is a presented browser window size, randomized per live attempt.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RetryConfig bounds the per-backend retry schedule.
type RetryConfig struct {
	MaxAttempts int     `yaml:"max_attempts"`
	BaseDelayMS int     `yaml:"base_delay_ms"`
	MaxDelayMS  int     `yaml:"max_delay_ms"`
	Jitter      float64 `yaml:"jitter"`
}

// LiveConfig configures the live SERP backend. Proxy and credentials are
// opaque strings; they are handed to the HTTP transport untouched.
type LiveConfig struct {
	Enabled       bool       `yaml:"enabled"`
	Proxy         string     `yaml:"proxy"`
	UserAgents    []string   `yaml:"user_agents"`
	UserAgentFile string     `yaml:"user_agent_file"`
	Viewports     []Viewport `yaml:"viewports"`
	MinPauseMS    int        `yaml:"min_pause_ms"`
	MaxPauseMS    int        `yaml:"max_pause_ms"`
	TimeoutSec    int        `yaml:"timeout_sec"`
}

// SerpAPIConfig holds credentials for the SerpAPI fallback backend.
type SerpAPIConfig struct {
	Key string `yaml:"key"`
}

// GoogleCSEConfig holds credentials for the Google Custom Search fallback backend.
type GoogleCSEConfig struct {
	Key string `yaml:"key"`
	CX  string `yaml:"cx"`
}

// Config holds runtime configuration for a clustering job. Values come from a
// YAML file; CLI flags override the ones they duplicate.
type Config struct {
	Workers       int             `yaml:"workers"`
	JobTimeoutSec int             `yaml:"job_timeout_sec"`
	APIFirst      bool            `yaml:"api_first"`
	OutputDir     string          `yaml:"output_dir"`
	DebugDir      string          `yaml:"debug_dir"`
	DBPath        string          `yaml:"db_path"`
	Retry         RetryConfig     `yaml:"retry"`
	Live          LiveConfig      `yaml:"live"`
	SerpAPI       SerpAPIConfig   `yaml:"serpapi"`
	GoogleCSE     GoogleCSEConfig `yaml:"google_cse"`
}

// DefaultConfig returns a config with workable defaults for every knob.
func DefaultConfig() *Config {
	return &Config{
		Workers:       4,
		JobTimeoutSec: 300,
		OutputDir:     "st-results",
		DebugDir:      "st-debug",
		Retry: RetryConfig{
			MaxAttempts: 4,
			BaseDelayMS: 1000,
			MaxDelayMS:  15000,
			Jitter:      0.5,
		},
		Live: LiveConfig{
			Enabled:    true,
			MinPauseMS: 600,
			MaxPauseMS: 1600,
			TimeoutSec: 15,
		},
	}
}

// LoadConfig reads a YAML config file, overlaying it on the defaults.
// A missing path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// UserAgents resolves the UA pool: explicit list, then file (one UA per
// line), then the built-in defaults.
func (c *Config) UserAgents() []string {
	if len(c.Live.UserAgents) > 0 {
		return c.Live.UserAgents
	}
	if c.Live.UserAgentFile != "" {
		data, err := os.ReadFile(c.Live.UserAgentFile)
		if err == nil {
			var pool []string
			for _, line := range strings.Split(string(data), "\n") {
				line = strings.TrimSpace(line)
				if line != "" {
					pool = append(pool, line)
				}
			}
			if len(pool) > 0 {
				return pool
			}
		}
	}
	return defaultUserAgents
}

// ViewportPool resolves the viewport pool, falling back to the defaults.
func (c *Config) ViewportPool() []Viewport {
	if len(c.Live.Viewports) > 0 {
		return c.Live.Viewports
	}
	return defaultViewports
}
