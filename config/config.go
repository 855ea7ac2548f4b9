// Package config loads the armdasm tool configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the disassembler tool configuration.
type Config struct {
	// Input settings
	Input struct {
		Arch        string `toml:"arch"`         // "a64" or "t32"
		BaseAddress uint64 `toml:"base_address"` // base for flat binaries
	} `toml:"input"`

	// Output settings
	Output struct {
		MaxInstructions int  `toml:"max_instructions"` // 0 means no limit
		ShowInvalid     bool `toml:"show_invalid"`
		Verbose         bool `toml:"verbose"`
	} `toml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Input.Arch = "a64"
	cfg.Input.BaseAddress = 0
	cfg.Output.MaxInstructions = 0
	cfg.Output.ShowInvalid = true
	cfg.Output.Verbose = false
	return cfg
}

// Load reads a TOML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Input.Arch {
	case "a64", "t32":
	default:
		return fmt.Errorf("invalid arch %q (want a64 or t32)", c.Input.Arch)
	}
	if c.Output.MaxInstructions < 0 {
		return fmt.Errorf("max_instructions must be non-negative")
	}
	return nil
}
