// Package config loads the gripcheck YAML configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config represents the overall application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Assistant     AssistantConfig     `yaml:"assistant"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Addr            string  `yaml:"addr"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

// StorageConfig selects and configures the document backend.
type StorageConfig struct {
	Driver        string `yaml:"driver"`
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	KeyPrefix     string `yaml:"key_prefix"`
}

// AssistantConfig holds the generative AI settings. An empty API key
// disables the assistant routes.
type AssistantConfig struct {
	APIKey      string  `yaml:"api_key"`
	ChatModel   string  `yaml:"chat_model"`
	ImageModel  string  `yaml:"image_model"`
	VoiceModel  string  `yaml:"voice_model"`
	Temperature float32 `yaml:"temperature"`
}

// NotificationsConfig controls the in-app notification feed.
type NotificationsConfig struct {
	DismissAfterSeconds int           `yaml:"dismiss_after_seconds"`
	DismissAfter        time.Duration `yaml:"-"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration from the given path. An empty path yields
// the defaults. The API key falls back to GEMINI_API_KEY, then API_KEY.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Assistant.Temperature < 0 || c.Assistant.Temperature > 2 {
		return fmt.Errorf("assistant temperature %.2f out of range [0, 2]", c.Assistant.Temperature)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 2
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = 4
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverSQLite
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "gripcheck.sqlite3"
	}
	if c.Storage.RedisAddr == "" {
		c.Storage.RedisAddr = "localhost:6379"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "gripcheck:"
	}

	if c.Assistant.ChatModel == "" {
		c.Assistant.ChatModel = "gemini-3-flash-preview"
	}
	if c.Assistant.ImageModel == "" {
		c.Assistant.ImageModel = "gemini-2.5-flash-image"
	}
	if c.Assistant.VoiceModel == "" {
		c.Assistant.VoiceModel = "gemini-2.5-flash-native-audio-preview-09-2025"
	}
	if c.Assistant.Temperature == 0 {
		c.Assistant.Temperature = 0.7
	}

	if c.Notifications.DismissAfterSeconds <= 0 {
		slog.Debug("notifications.dismiss_after_seconds not set; defaulting to 3")
		c.Notifications.DismissAfterSeconds = 3
	}
	c.Notifications.DismissAfter = time.Duration(c.Notifications.DismissAfterSeconds) * time.Second
}

func (c *Config) applyEnv() {
	if c.Assistant.APIKey != "" {
		return
	}
	for _, name := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if v := os.Getenv(name); v != "" {
			c.Assistant.APIKey = v
			return
		}
	}
}
