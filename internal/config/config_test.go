package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gripcheck.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("expected %s, got %s", DriverSQLite, cfg.Storage.Driver)
	}
	if cfg.Storage.Path != "gripcheck.sqlite3" {
		t.Errorf("expected gripcheck.sqlite3, got %s", cfg.Storage.Path)
	}
	if cfg.Assistant.ChatModel != "gemini-3-flash-preview" {
		t.Errorf("expected gemini-3-flash-preview, got %s", cfg.Assistant.ChatModel)
	}
	if d := cfg.Assistant.Temperature - 0.7; d > 0.0001 || d < -0.0001 {
		t.Errorf("expected temperature 0.7, got %v", cfg.Assistant.Temperature)
	}
	if cfg.Notifications.DismissAfter != 3*time.Second {
		t.Errorf("expected 3s, got %s", cfg.Notifications.DismissAfter)
	}
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9000"
storage:
  driver: redis
  redis_addr: "redis:6379"
  redis_db: 2
notifications:
  dismiss_after_seconds: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("expected 127.0.0.1:9000, got %s", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != DriverRedis {
		t.Errorf("expected %s, got %s", DriverRedis, cfg.Storage.Driver)
	}
	if cfg.Storage.RedisAddr != "redis:6379" {
		t.Errorf("expected redis:6379, got %s", cfg.Storage.RedisAddr)
	}
	if cfg.Storage.RedisDB != 2 {
		t.Errorf("expected redis db 2, got %d", cfg.Storage.RedisDB)
	}
	if cfg.Storage.KeyPrefix != "gripcheck:" {
		t.Errorf("expected default key prefix, got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Notifications.DismissAfter != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.Notifications.DismissAfter)
	}
	if cfg.Assistant.APIKey != "" {
		t.Errorf("expected no api key, got %q", cfg.Assistant.APIKey)
	}
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Assistant.APIKey != "fallback-key" {
		t.Errorf("expected fallback-key, got %q", cfg.Assistant.APIKey)
	}

	t.Setenv("GEMINI_API_KEY", "primary-key")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Assistant.APIKey != "primary-key" {
		t.Errorf("expected primary-key, got %q", cfg.Assistant.APIKey)
	}
}

func TestLoadFileKeyWinsOverEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	path := writeConfig(t, "assistant:\n  api_key: file-key\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Assistant.APIKey != "file-key" {
		t.Errorf("expected file-key, got %q", cfg.Assistant.APIKey)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"unknown driver": "storage:\n  driver: postgres\n",
		"unknown field":  "server:\n  port: 8080\n",
		"bad yaml":       "server: [\n",
		"temperature":    "assistant:\n  temperature: 3.5\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
