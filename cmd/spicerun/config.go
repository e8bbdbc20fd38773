package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds spicerun configuration. Flags override the file and
// environment values.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Archive ArchiveConfig `mapstructure:"archive"`
	UI      UIConfig      `mapstructure:"ui"`
	Debug   bool          `mapstructure:"debug"`
}

// EngineConfig selects the shared library to attach.
type EngineConfig struct {
	Library string `mapstructure:"library"` // empty probes the platform candidates
}

// ArchiveConfig locates the run archive database.
type ArchiveConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds display preferences.
type UIConfig struct {
	Progress bool `mapstructure:"progress"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{Path: defaultArchivePath()},
		UI:      UIConfig{Progress: true},
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "spicerun")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "spicerun")
	}
}

// defaultArchivePath returns the default archive location for the current OS
func defaultArchivePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "spicerun", "archive.db")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "spicerun", "archive.db")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("SPICERUN")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}
