// Package config provides configuration management for the LeapDash CLI.
//
// Values are layered, lowest to highest: built-in defaults, leapdash.yaml,
// LEAPDASH_* environment variables, command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/leapdash/internal/query"
	"github.com/leapstack-labs/leapdash/internal/workspace"
)

// UIConfig holds configuration for the web dashboard.
type UIConfig struct {
	Port          int           `koanf:"port"`
	AutoOpen      bool          `koanf:"auto_open"`
	Dev           bool          `koanf:"dev"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
	SessionSecret string        `koanf:"session_secret"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:       DefaultPort,
		AutoOpen:   true,
		SessionTTL: workspace.DefaultTTL,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = DefaultPort
	}
	if ui.SessionTTL == 0 {
		ui.SessionTTL = workspace.DefaultTTL
	}
	return ui
}

// Config holds all CLI configuration options.
type Config struct {
	Latency      time.Duration `koanf:"latency"`
	Policy       query.Policy  `koanf:"policy"`
	Suggestions  []string      `koanf:"suggestions"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	HistoryFile  string        `koanf:"history_file"`
	UI           *UIConfig     `koanf:"ui"`
}

// Default configuration values.
const (
	DefaultPort    = 8765
	DefaultOutput  = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLatency = query.DefaultLatency
)

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Latency:      DefaultLatency,
		Policy:       query.PolicySupersede,
		Suggestions:  append([]string(nil), query.DefaultSuggestions...),
		OutputFormat: DefaultOutput,
		UI:           DefaultUIConfig(),
	}
}
