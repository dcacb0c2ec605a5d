// Package config handles workspace configuration for flowprobe.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the workspace configuration (flowprobe.yaml). Values act
// as defaults for the matching CLI flags.
type Config struct {
	// Target service
	BaseURL string `yaml:"baseUrl"`

	// Result logging
	ResultsLog string `yaml:"resultsLog"`

	// Default request timeout in seconds
	Timeout float64 `yaml:"timeout"`

	// Variables merged into every collection's variable set
	Variables map[string]any `yaml:"variables"`
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromDir looks for flowprobe.yaml or flowprobe.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, "flowprobe.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	configPath = filepath.Join(dir, "flowprobe.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return empty config
	return &Config{}, nil
}
