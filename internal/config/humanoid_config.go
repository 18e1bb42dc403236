// File: internal/config/humanoid_config.go
// This file defines the HumanoidConfig struct, the tunable parameters for the
// human-like mouse motion used when clicking on the client. They control the
// movement timing model (Fitts's law), path jitter, and click hold time.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// HumanoidConfig tunes the mouse motion model.
type HumanoidConfig struct {
	// Enabled switches between curved, timed motion and a direct press/release.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Fitts's law coefficients: MT = A + B * log2(1 + D/W), in milliseconds.
	FittsA float64 `mapstructure:"fitts_a" yaml:"fitts_a"`
	FittsB float64 `mapstructure:"fitts_b" yaml:"fitts_b"`

	// JitterStdDev is the standard deviation, in pixels, of per-step noise.
	JitterStdDev float64 `mapstructure:"jitter_std_dev" yaml:"jitter_std_dev"`

	ClickHoldMinMs int `mapstructure:"click_hold_min_ms" yaml:"click_hold_min_ms"`
	ClickHoldMaxMs int `mapstructure:"click_hold_max_ms" yaml:"click_hold_max_ms"`
}

func setHumanoidDefaults(v *viper.Viper) {
	v.SetDefault("input.humanoid.enabled", true)
	v.SetDefault("input.humanoid.fitts_a", 80.0)
	v.SetDefault("input.humanoid.fitts_b", 110.0)
	v.SetDefault("input.humanoid.jitter_std_dev", 0.6)
	v.SetDefault("input.humanoid.click_hold_min_ms", 45)
	v.SetDefault("input.humanoid.click_hold_max_ms", 110)
}

// Validate checks the humanoid parameters.
func (h *HumanoidConfig) Validate() error {
	if h.FittsA < 0 || h.FittsB < 0 {
		return fmt.Errorf("fitts_a and fitts_b must not be negative")
	}
	if h.JitterStdDev < 0 {
		return fmt.Errorf("jitter_std_dev must not be negative")
	}
	if h.ClickHoldMinMs < 0 || h.ClickHoldMaxMs < h.ClickHoldMinMs {
		return fmt.Errorf("click_hold_min_ms must be >= 0 and <= click_hold_max_ms")
	}
	return nil
}
