package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/leapstack-labs/leapdash/internal/cli/output"
	"github.com/leapstack-labs/leapdash/internal/query"
)

// MaxLatency caps the simulated query latency.
const MaxLatency = time.Minute

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Latency < 0 || c.Latency > MaxLatency {
		return fmt.Errorf("latency must be between 0 and %s, got %s", MaxLatency, c.Latency)
	}
	if c.Policy != query.PolicySupersede && c.Policy != query.PolicyLastWriteWins {
		return fmt.Errorf("invalid policy %s", c.Policy)
	}
	if c.OutputFormat != "" && !slices.Contains(output.Modes, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %v)", c.OutputFormat, output.Modes)
	}

	if c.UI != nil {
		if c.UI.Port < 0 || c.UI.Port > 65535 {
			return fmt.Errorf("ui.port out of range: %d", c.UI.Port)
		}
		if c.UI.SessionTTL < 0 {
			return fmt.Errorf("ui.session_ttl must not be negative, got %s", c.UI.SessionTTL)
		}
	}
	return nil
}
