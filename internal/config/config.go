// Package config provides configuration management for the trade gate log.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database    DatabaseConfig `mapstructure:"database"`
	Logging     LoggingConfig  `mapstructure:"logging"`
	Report      ReportConfig   `mapstructure:"report"`
	Credentials Credentials    `mapstructure:"-"` // env only, never written to disk
}

// DatabaseConfig holds storage configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  bool   `mapstructure:"file"`
}

// ReportConfig holds AI review report configuration.
type ReportConfig struct {
	Model string `mapstructure:"model"`
}

// Credentials holds API credentials, loaded from the environment.
type Credentials struct {
	OpenAIAPIKey string
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-gate-log"
	}
	return filepath.Join(home, ".config", "trade-gate-log")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used; a missing config file gets a
// template written in its place.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("database.path", filepath.Join(configDir, "tradegate.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", true)
	v.SetDefault("report.model", "gpt-4o-mini")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := writeTemplate(configDir); err != nil {
			return nil, fmt.Errorf("writing config template: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAIAPIKey = v
	}
	if v := os.Getenv("TRADEGATE_DB"); v != "" {
		cfg.Database.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}

const configTemplate = `# trade-gate-log configuration

[database]
# path = "~/.config/trade-gate-log/tradegate.db"

[logging]
level = "info"
file = true

[report]
model = "gpt-4o-mini"
`

func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}
