// Package config loads the optional jmp configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/jmp/internal/constants"
	"gopkg.in/yaml.v3"
)

// ErrConfig marks every configuration error.
var ErrConfig = errors.New("invalid configuration")

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	validBackends = []string{"yaml", "sqlite"}
	validColors   = []string{ColorAuto, ColorAlways, ColorNever}
	validLevels   = []string{"trace", "debug", "info", "warn", "error", "disabled"}
)

type Config struct {
	VerifyTargets *bool         `yaml:"verify_targets,omitempty"`
	Pad           string        `yaml:"pad,omitempty"`
	Backend       string        `yaml:"backend"`
	Color         string        `yaml:"color"`
	Logging       LoggingConfig `yaml:"logging"`
	LockTimeout   time.Duration `yaml:"lock_timeout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path,omitempty"`
}

// Load reads the config file at path. A missing file yields the defaults.
// Environment overrides are applied through getenv, which may be nil.
func Load(fs afero.Fs, path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}

	data, err := afero.ReadFile(fs, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
		}
	}

	cfg.applyEnv(getenv)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ShouldVerifyTargets reports whether new bookmarks must point at a directory.
func (c *Config) ShouldVerifyTargets() bool {
	if c.VerifyTargets == nil {
		return true
	}
	return *c.VerifyTargets
}

// Validate performs config validation
func (c *Config) Validate() error {
	if !slices.Contains(validBackends, c.Backend) {
		return fmt.Errorf("%w: backend %q must be one of %v", ErrConfig, c.Backend, validBackends)
	}
	if !slices.Contains(validColors, c.Color) {
		return fmt.Errorf("%w: color %q must be one of %v", ErrConfig, c.Color, validColors)
	}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("%w: logging.level %q must be one of %v", ErrConfig, c.Logging.Level, validLevels)
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("%w: lock_timeout must not be negative", ErrConfig)
	}
	return nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err //nolint:wrapcheck // wrapped by caller with path
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(constants.EnvPad); v != "" {
		c.Pad = v
	}
	if v := getenv(constants.EnvBackend); v != "" {
		c.Backend = v
	}
	if v := getenv(constants.EnvColor); v != "" {
		c.Color = v
	}
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Backend == "" {
		c.Backend = defaults.Backend
	}
	if c.Color == "" {
		c.Color = defaults.Color
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.LockTimeout == 0 {
		c.LockTimeout = defaults.LockTimeout
	}
}
