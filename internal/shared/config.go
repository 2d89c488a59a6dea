package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvBaseURL overrides the configured server base URL when set.
const EnvBaseURL = "CONVX_API_URL"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Polling  PollingConfig  `toml:"polling"`
}

// ServerConfig contains conversion service connection settings.
type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// PollingConfig contains job polling settings.
type PollingConfig struct {
	IntervalSeconds int     `toml:"interval_seconds"`
	RateLimit       float64 `toml:"rate_limit"`
	StopWhenSettled bool    `toml:"stop_when_settled"`
}

// BaseURL resolves the server base URL, preferring the environment override.
func (c *Config) BaseURL() string {
	if url := os.Getenv(EnvBaseURL); url != "" {
		return url
	}
	return c.Server.BaseURL
}

// Timeout returns the configured HTTP timeout as a [time.Duration].
func (c *Config) Timeout() time.Duration {
	if c.Server.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// PollInterval returns the configured polling interval as a [time.Duration].
func (c *Config) PollInterval() time.Duration {
	if c.Polling.IntervalSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.Polling.IntervalSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
