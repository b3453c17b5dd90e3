package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Stories   StoriesConfig
	Watch     WatchConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"6006"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// StoriesConfig describes where story modules are loaded from.
type StoriesConfig struct {
	Dir              string   `envconfig:"STORIES_DIR" default:"./stories"`
	Patterns         []string `envconfig:"STORIES_PATTERNS" default:"**/*.stories.yaml,**/*.stories.yml,**/*.stories.json,**/*.stories.toml,**/*.stories.js"`
	Framework        string   `envconfig:"FRAMEWORK" default:"blueprint"`
	ShowDeprecations bool     `envconfig:"SHOW_DEPRECATIONS" default:"true"`
}

// WatchConfig holds file watcher configuration.
type WatchConfig struct {
	Enabled  bool          `envconfig:"WATCH_ENABLED" default:"true"`
	Debounce time.Duration `envconfig:"WATCH_DEBOUNCE" default:"250ms"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// DefaultPatterns are the story module globs matched under the stories directory.
func DefaultPatterns() []string {
	return []string{
		"**/*.stories.yaml",
		"**/*.stories.yml",
		"**/*.stories.json",
		"**/*.stories.toml",
		"**/*.stories.js",
	}
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "6006",
			Host: "0.0.0.0",
		},
		Stories: StoriesConfig{
			Dir:              "./stories",
			Patterns:         DefaultPatterns(),
			Framework:        "blueprint",
			ShowDeprecations: true,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 250 * time.Millisecond,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
