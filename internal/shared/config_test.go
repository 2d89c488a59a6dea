package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		t.Run("loads embedded defaults", func(t *testing.T) {
			config := DefaultConfig()

			if config.Server.BaseURL == "" {
				t.Error("expected default base URL to be set")
			}
			if config.Database.Path == "" {
				t.Error("expected default database path to be set")
			}
			if config.Polling.IntervalSeconds != 3 {
				t.Errorf("expected default poll interval of 3 seconds, got %d", config.Polling.IntervalSeconds)
			}
		})
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("parses a TOML file", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			content := `
[server]
base_url = "https://convert.example.com/api"
timeout_seconds = 10

[polling]
interval_seconds = 5
stop_when_settled = true
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if config.Server.BaseURL != "https://convert.example.com/api" {
				t.Errorf("unexpected base URL: %s", config.Server.BaseURL)
			}
			if config.Timeout() != 10*time.Second {
				t.Errorf("expected 10s timeout, got %v", config.Timeout())
			}
			if config.PollInterval() != 5*time.Second {
				t.Errorf("expected 5s poll interval, got %v", config.PollInterval())
			}
			if !config.Polling.StopWhenSettled {
				t.Error("expected stop_when_settled to be true")
			}
		})

		t.Run("returns error for missing file", func(t *testing.T) {
			if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
				t.Error("expected error for missing config file")
			}
		})

		t.Run("returns error for invalid TOML", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error for invalid TOML")
			}
		})
	})

	t.Run("BaseURL", func(t *testing.T) {
		t.Run("prefers environment override", func(t *testing.T) {
			t.Setenv(EnvBaseURL, "https://override.example.com/api")

			config := DefaultConfig()
			if config.BaseURL() != "https://override.example.com/api" {
				t.Errorf("expected env override, got %s", config.BaseURL())
			}
		})

		t.Run("falls back to configured URL", func(t *testing.T) {
			t.Setenv(EnvBaseURL, "")

			config := DefaultConfig()
			if config.BaseURL() != config.Server.BaseURL {
				t.Errorf("expected configured URL, got %s", config.BaseURL())
			}
		})
	})

	t.Run("Timeout", func(t *testing.T) {
		t.Run("defaults when unset", func(t *testing.T) {
			config := &Config{}
			if config.Timeout() != 30*time.Second {
				t.Errorf("expected 30s default, got %v", config.Timeout())
			}
		})
	})

	t.Run("PollInterval", func(t *testing.T) {
		t.Run("defaults when unset", func(t *testing.T) {
			config := &Config{}
			if config.PollInterval() != 3*time.Second {
				t.Errorf("expected 3s default, got %v", config.PollInterval())
			}
		})
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		t.Run("writes the example config", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")

			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("created config does not parse: %v", err)
			}
			if config.Server.BaseURL == "" {
				t.Error("expected base URL in created config")
			}
		})

		t.Run("refuses to overwrite", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			if err := CreateConfigFile(path); err == nil {
				t.Error("expected error when config already exists")
			}
		})
	})
}
