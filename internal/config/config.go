// Package config handles xsitool configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all xsitool settings.
type Config struct {
	Textures TexturesConfig `yaml:"textures"`
	Validate ValidateConfig `yaml:"validate"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TexturesConfig holds texture resolution settings.
type TexturesConfig struct {
	SearchDirs []string `yaml:"search_dirs"` // Directories textures are resolved against
	Extensions []string `yaml:"extensions"`  // Accepted texture extensions
	Recursive  bool     `yaml:"recursive"`   // Descend into subdirectories
}

// ValidateConfig holds validation rule toggles.
type ValidateConfig struct {
	SkipFileCheck        bool `yaml:"skip_file_check"`
	SkipExtensionsCheck  bool `yaml:"skip_extensions_check"`
	SkipShadingTypeCheck bool `yaml:"skip_shading_type_check"`
	SkipImageProbe       bool `yaml:"skip_image_probe"`
}

// OutputConfig holds formatting settings.
type OutputConfig struct {
	Indent string `yaml:"indent"` // Block indentation for written files
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Indent: "\t",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from an optional explicit path, falling back to
// ./xsitool.yaml. Missing files leave the defaults in place.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = "xsitool.yaml"
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}

	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	return cfg, nil
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
