package transform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls the engine and the apply policy around it.
type Config struct {
	Name string `yaml:"name"`

	// Strict makes formatting-gate failures fatal instead of warnings.
	Strict bool `yaml:"strict"`

	// MinConfidence is the apply threshold; proposals below it are only
	// reported, never persisted.
	MinConfidence float64 `yaml:"min_confidence"`

	DisabledPatterns []string `yaml:"disabled_patterns"`
}

// DefaultConfig matches the engine's built-in behavior.
func DefaultConfig() Config {
	return Config{
		Name:          "recast",
		MinConfidence: 0.8,
	}
}

// LoadConfig parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteDefaultConfig writes the default configuration to path, for the
// init subcommand.
func WriteDefaultConfig(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
