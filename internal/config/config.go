package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the player preferences persisted between sessions
type Config struct {
	Sound      bool   `toml:"sound"`
	Wacky      bool   `toml:"wacky"`
	Difficulty string `toml:"difficulty"`
	Background string `toml:"background"`
	CardCover  string `toml:"card_cover"`
	Opponents  int    `toml:"opponents"`
	Personas   string `toml:"personas,omitempty"`
}

// DefaultConfig returns the out-of-the-box preferences
func DefaultConfig() *Config {
	return &Config{
		Sound:      true,
		Wacky:      false,
		Difficulty: "medium",
		Background: "green",
		CardCover:  "blue",
		Opponents:  3,
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "idoubtit", "config.toml")
}

// LoadConfig loads the config file, creating it with defaults on first run
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	config := DefaultConfig()
	_, err := toml.DecodeFile(configPath, config)
	if err != nil {
		return nil, fmt.Errorf("error decoding config file: %v", err)
	}
	if config.Opponents < 1 || config.Opponents > 7 {
		return nil, fmt.Errorf("opponents must be between 1 and 7, got %d", config.Opponents)
	}

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	configPath := GetConfigFilePath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %v", err)
	}

	config := DefaultConfig()
	if err := SaveConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes the config back to the config file
func SaveConfig(config *Config) error {
	configPath := GetConfigFilePath()
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %v", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %v", err)
	}
	return nil
}
