// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Discord   DiscordConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN"`
	AppID   string `env:"DISCORD_APP_ID"`
	GuildID string `env:"DISCORD_GUILD_ID"` // Optional: for guild-specific commands

	// Access control; both optional
	BlockedUsers []string `env:"DISCORD_BLOCKED_USERS" envSeparator:","`
	AllowedRoles []string `env:"DISCORD_ALLOWED_ROLES" envSeparator:","`
}

// StorageConfig selects and addresses the character store
type StorageConfig struct {
	Backend    string `env:"STORE_BACKEND" envDefault:"memory"`
	RedisURL   string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"pgte.db"`
}

// RateLimitConfig bounds interactions per user
type RateLimitConfig struct {
	PerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
}

// TelemetryConfig controls trace export
type TelemetryConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	Endpoint    string `env:"OTEL_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"pgte-bot"`
}

// TracingEnabled reports whether spans should be exported.
func (t TelemetryConfig) TracingEnabled() bool {
	return t.Enabled && t.Endpoint != ""
}

// Load loads the bot configuration from environment variables
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom is Load over an explicit variable set instead of the process
// environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*Config, error) {
	cfg, err := parse(opts)
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.Discord.AppID == "" {
		return nil, fmt.Errorf("DISCORD_APP_ID is required")
	}
	if cfg.RateLimit.PerMinute < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", cfg.RateLimit.PerMinute)
	}

	return cfg, nil
}

// LoadStorage loads only what the command-line tools need; Discord settings
// are not required.
func LoadStorage() (*StorageConfig, error) {
	cfg, err := parse(env.Options{})
	if err != nil {
		return nil, err
	}
	return &cfg.Storage, nil
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the backend name and its address.
func (s *StorageConfig) Validate() error {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))

	switch s.Backend {
	case BackendMemory:
	case BackendRedis:
		u, err := url.Parse(s.RedisURL)
		if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			return fmt.Errorf("REDIS_URL must be a redis:// or rediss:// URL, got %q", s.RedisURL)
		}
	case BackendSQLite:
		if strings.TrimSpace(s.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (use %s, %s or %s)",
			s.Backend, BackendMemory, BackendRedis, BackendSQLite)
	}
	return nil
}
