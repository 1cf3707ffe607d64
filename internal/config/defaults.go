package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the default jmp configuration
func DefaultConfig() *Config {
	verify := true
	return &Config{
		VerifyTargets: &verify,
		Backend:       "yaml",
		Color:         ColorAuto,
		Logging: LoggingConfig{
			Level: "info",
		},
		LockTimeout: 5 * time.Second,
	}
}

// DefaultConfigYAML returns the default configuration as YAML bytes
func DefaultConfigYAML() ([]byte, error) {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default config to YAML: %w", err)
	}
	return data, nil
}
