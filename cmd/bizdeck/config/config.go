// Package config holds user preferences for the bizdeck CLI and TUI.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LoggingConfig controls the categorized debug file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
}

// Config holds user preferences
type Config struct {
	APIKey     string        `json:"api_key"`
	Theme      string        `json:"theme"` // "light" or "dark"
	Model      string        `json:"model,omitempty"`
	ImageModel string        `json:"image_model,omitempty"`
	VaultPath  string        `json:"vault_path,omitempty"`
	VaultSlot  string        `json:"vault_slot,omitempty"`
	Logging    LoggingConfig `json:"logging"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Theme: "dark",
	}
}

// ConfigDir returns the directory where config and state are stored
func ConfigDir() (string, error) {
	// Prefer project-local .bizdeck directory if present
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".bizdeck")
		if stat, err := os.Stat(localDir); err == nil && stat.IsDir() {
			return localDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bizdeck"), nil
}

// ConfigFile returns the full path to the config file
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk
func Load() (Config, error) {
	path, err := ConfigFile()
	if err != nil {
		return DefaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	return cfg, nil
}

// Save writes the configuration to disk
func Save(cfg Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigFile()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveAPIKey picks the Gemini API key: environment first, then config.
func ResolveAPIKey(cfg Config) string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return cfg.APIKey
}

// VaultDBPath returns the path of the vault database, defaulting to the
// config directory when not set explicitly.
func VaultDBPath(cfg Config) (string, error) {
	if cfg.VaultPath != "" {
		return cfg.VaultPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vault.db"), nil
}
