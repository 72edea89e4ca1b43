package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AutomationConfig tunes the simulated media and messaging backends.
// Real backends replace the simulated ones behind the same ports.
type AutomationConfig struct {
	// EnhanceDelay is how long a media enhancement takes
	EnhanceDelay time.Duration `yaml:"enhanceDelay"`

	// GenerateDelay is how long an AI image generation takes
	GenerateDelay time.Duration `yaml:"generateDelay"`

	// SendDelay is how long one outbound auto-response takes
	SendDelay time.Duration `yaml:"sendDelay"`

	// SubmitDelay is how long the submission handoff takes
	SubmitDelay time.Duration `yaml:"submitDelay"`

	// MaxConcurrentSends bounds bulk auto-response fan-out
	MaxConcurrentSends int `yaml:"maxConcurrentSends"`
}

// DefaultAutomationConfig mirrors the delays the product shows today
func DefaultAutomationConfig() AutomationConfig {
	return AutomationConfig{
		EnhanceDelay:       2 * time.Second,
		GenerateDelay:      3 * time.Second,
		SendDelay:          1500 * time.Millisecond,
		SubmitDelay:        500 * time.Millisecond,
		MaxConcurrentSends: 4,
	}
}

func (c *AutomationConfig) applyEnvOverrides() error {
	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{"AUTOMATION_ENHANCE_DELAY", &c.EnhanceDelay},
		{"AUTOMATION_GENERATE_DELAY", &c.GenerateDelay},
		{"AUTOMATION_SEND_DELAY", &c.SendDelay},
		{"AUTOMATION_SUBMIT_DELAY", &c.SubmitDelay},
	} {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v := os.Getenv("AUTOMATION_MAX_CONCURRENT_SENDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("AUTOMATION_MAX_CONCURRENT_SENDS: invalid value %q", v)
		}
		c.MaxConcurrentSends = n
	}
	return nil
}
