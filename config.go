package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"midiwire/midi"
)

// Config is the main configuration structure
type Config struct {
	OutputPort     string `json:"outputPort,omitempty"` // name fragment or index
	InputPort      string `json:"inputPort,omitempty"`
	Channel        int    `json:"channel"`
	Group          int    `json:"group"`
	Protocol       string `json:"protocol"`
	HexSeparator   string `json:"hexSeparator"`
	DeviceID       int    `json:"deviceID"`
	ReplyTimeoutMs int    `json:"replyTimeoutMs"`
	Debug          bool   `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Protocol:       midi.Protocol2.String(),
		HexSeparator:   " ",
		DeviceID:       0x7F,
		ReplyTimeoutMs: 5000,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "midiwire"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the config from disk, or returns defaults if not found
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Fields missing from the file keep their defaults.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.saveFile(path)
}

func (c *Config) saveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the numeric fields against their MIDI widths.
func (c *Config) Validate() error {
	if _, err := midi.NewUInt4(c.Channel); err != nil {
		return fmt.Errorf("channel: %w", err)
	}
	if _, err := midi.NewUInt4(c.Group); err != nil {
		return fmt.Errorf("group: %w", err)
	}
	if _, err := midi.NewUInt7(c.DeviceID); err != nil {
		return fmt.Errorf("deviceID: %w", err)
	}
	if _, err := midi.ParseProtocol(c.Protocol); err != nil {
		return err
	}
	if c.ReplyTimeoutMs <= 0 {
		return fmt.Errorf("replyTimeoutMs must be positive, got %d", c.ReplyTimeoutMs)
	}
	return nil
}

// The accessors below assume Validate has passed.

func (c *Config) defaults() eventDefaults {
	return eventDefaults{channel: midi.UInt4Clamping(c.Channel), group: midi.UInt4Clamping(c.Group)}
}

func (c *Config) protocol() midi.Protocol {
	p, err := midi.ParseProtocol(c.Protocol)
	if err != nil {
		return midi.Protocol2
	}
	return p
}

func (c *Config) deviceID() midi.UInt7 { return midi.UInt7Clamping(c.DeviceID) }

func (c *Config) replyTimeout() time.Duration {
	return time.Duration(c.ReplyTimeoutMs) * time.Millisecond
}
