// Package config handles the global quest configuration and journal path
// resolution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/matsen/questjournal/internal/quest"
	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/quest/config.yml.
type GlobalConfig struct {
	JournalPath     string `yaml:"journal_path,omitempty"`
	DefaultPriority string `yaml:"default_priority,omitempty"`
	LogLevel        string `yaml:"log_level,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "quest"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// ErrInvalidConfig is wrapped by every error caused by the contents of the
// config file or .env, as opposed to the journal.
var ErrInvalidConfig = errors.New("invalid configuration")

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/quest/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads and validates the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, path, err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	if cfg.JournalPath != "" {
		cfg.JournalPath = ExpandPath(cfg.JournalPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// Validate checks the enumerated settings.
func (c *GlobalConfig) Validate() error {
	if c.DefaultPriority != "" {
		if _, err := quest.ParsePriority(c.DefaultPriority); err != nil {
			return fmt.Errorf("default_priority: %w", err)
		}
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

// Priority returns the configured default priority, or the built-in default.
func (c *GlobalConfig) Priority() quest.Priority {
	if c.DefaultPriority == "" {
		return quest.DefaultPriority
	}
	return quest.Priority(c.DefaultPriority)
}
