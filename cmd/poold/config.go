// config.go - Configuration for the pool daemon CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the CLI's persistent settings.
type Config struct {
	// SnapshotPath is where the simulated runtime's account set lives
	// between invocations.
	SnapshotPath string `json:"snapshot_path"`

	// ProgramID is the pool program identifier (hex, 32 bytes).
	ProgramID string `json:"program_id"`

	// Logging
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SnapshotPath: "accounts.json",
		ProgramID:    "746f726e61646f2d706f6f6c2d70726f6772616d2d69640000000000000000ff",
		LogLevel:     "info",
	}
}

// LoadConfig loads configuration from file, creating the default on first
// run. A .env file may override the snapshot path and log level via
// POOLD_SNAPSHOT and POOLD_LOG_LEVEL.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	var config *Config
	if _, err := os.Stat(configPath); err == nil {
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()
		config = &Config{}
		if err := json.NewDecoder(f).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	} else {
		config = DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	if v := os.Getenv("POOLD_SNAPSHOT"); v != "" {
		config.SnapshotPath = v
	}
	if v := os.Getenv("POOLD_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	return config, config.Validate()
}

// SaveConfig saves configuration to file.
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(config)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SnapshotPath == "" {
		return fmt.Errorf("snapshot_path must not be empty")
	}
	if len(c.ProgramID) != 64 {
		return fmt.Errorf("program_id must be 32 hex-encoded bytes")
	}
	return nil
}
