package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backends []string      `yaml:"backends"`
	DDCUtil  DDCUtilConfig `yaml:"ddcutil"`
	Serial   SerialConfig  `yaml:"serial"`
	Console  ConsoleConfig `yaml:"console"`
}

type DDCUtilConfig struct {
	Command string `yaml:"command"`
}

type SerialConfig struct {
	VID      string `yaml:"vid"`
	PID      string `yaml:"pid"`
	BaudRate int    `yaml:"baud_rate"`
}

type ConsoleConfig struct {
	Displays int `yaml:"displays"`
}

// Kept in sync with the registrations in the display package.
var knownBackends = map[string]bool{
	"backlight": true,
	"console":   true,
	"ddcutil":   true,
	"serial":    true,
}

func DefaultConfig() *Config {
	return &Config{
		Backends: []string{"ddcutil", "backlight"},
		DDCUtil:  DDCUtilConfig{Command: "ddcutil"},
		Serial:   SerialConfig{VID: "239A", PID: "80F0", BaudRate: 9600},
		Console:  ConsoleConfig{Displays: 1},
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "gobright", "config.yaml"), nil
}

func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the config at path, applying defaults for anything the
// file leaves unset. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Backends) == 0 {
		return errors.New("backends must not be empty")
	}
	for _, name := range c.Backends {
		if !knownBackends[name] {
			return fmt.Errorf("unknown backend %q", name)
		}
	}
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("invalid baud_rate %d", c.Serial.BaudRate)
	}
	return nil
}
