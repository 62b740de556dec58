package validation

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultMaxFileSize is the largest connector definition file the validator
// will read. Bigger files fail without being parsed.
const DefaultMaxFileSize = 256 * 1024

// Config controls validator behavior.
type Config struct {
	// MaxFileSize is the per-file size limit in bytes. Zero or negative
	// disables the limit.
	MaxFileSize int64 `yaml:"max_file_size"`
	// Rules enables or disables individual semantic rules by name.
	// Rules not listed are enabled.
	Rules map[string]bool `yaml:"rules"`
}

// DefaultConfig returns the default validator configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxFileSize: DefaultMaxFileSize,
		Rules:       make(map[string]bool),
	}
}

// LoadConfig loads configuration from a file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigFromDir searches for a config file in directory, falling back
// to defaults when none is found.
func LoadConfigFromDir(dir string) (*Config, error) {
	configNames := []string{"connpack.yaml", "connpack.yml", ".connpack.yaml", ".connpack.yml"}

	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}

	return DefaultConfig(), nil
}

// ruleEnabled reports whether the named semantic rule should run.
func (c *Config) ruleEnabled(name string) bool {
	if enabled, ok := c.Rules[name]; ok {
		return enabled
	}
	return true
}
