package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultProvider      = "anthropic"
	DefaultMaxIterations = 5
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Provider: DefaultProvider,
		Limits:   Limits{MaxIterations: DefaultMaxIterations},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

func configPath(basePath string) string {
	return filepath.Join(basePath, ".questfoundry", "config.yaml")
}

// Load reads and parses .questfoundry/config.yaml under basePath. A missing
// file yields the default config; missing fields get defaults.
func Load(basePath string) (*Config, error) {
	data, err := os.ReadFile(configPath(basePath))
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if cfg.Limits.MaxIterations == 0 {
		cfg.Limits.MaxIterations = DefaultMaxIterations
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to .questfoundry/config.yaml under basePath. The
// .questfoundry directory must already exist.
func Save(basePath string, cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath(basePath), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks config invariants.
func Validate(cfg *Config) error {
	if cfg.Limits.MaxIterations < 1 {
		return ValidationError{Field: "limits.max_iterations", Message: "must be at least 1"}
	}
	if cfg.Provider == "" {
		return ValidationError{Field: "provider", Message: "must not be empty"}
	}
	return nil
}

// Keys addressable via Get and Set, as used by `qf config`.
const (
	KeyProvider      = "provider"
	KeyStorySeed     = "story_seed"
	KeyMaxIterations = "limits.max_iterations"
)

// Get returns the string form of a config key's value.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyProvider:
		return c.Provider, nil
	case KeyStorySeed:
		return c.StorySeed, nil
	case KeyMaxIterations:
		return strconv.Itoa(c.Limits.MaxIterations), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set updates a config key from its string form. The caller is responsible
// for saving afterwards.
func (c *Config) Set(key, value string) error {
	switch key {
	case KeyProvider:
		if value == "" {
			return ValidationError{Field: KeyProvider, Message: "must not be empty"}
		}
		c.Provider = value
	case KeyStorySeed:
		c.StorySeed = value
	case KeyMaxIterations:
		n, err := strconv.Atoi(value)
		if err != nil {
			return ValidationError{Field: KeyMaxIterations, Message: "must be an integer"}
		}
		if n < 1 {
			return ValidationError{Field: KeyMaxIterations, Message: "must be at least 1"}
		}
		c.Limits.MaxIterations = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
