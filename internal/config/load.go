package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// marshal renders the config as YAML.
func marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
