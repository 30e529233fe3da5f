// Package config loads and saves the project configuration stored in
// .questfoundry/config.yaml.
package config

// Limits defines operational boundaries for loop execution.
type Limits struct {
	// MaxIterations caps the number of stabilization attempts per loop run.
	MaxIterations int `yaml:"max_iterations"`
}

// Config represents the .questfoundry/config.yaml file.
type Config struct {
	// Provider is the AI provider the engine should use.
	Provider string `yaml:"provider"`
	// StorySeed is the seed concept consumed by the story-spark loop.
	StorySeed string `yaml:"story_seed,omitempty"`
	Limits    Limits `yaml:"limits"`
}
