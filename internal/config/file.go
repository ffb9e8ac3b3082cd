package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// reads the YAML config file, expanding ${VAR} references first
func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var file fileConfig
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &file, nil
}

func (c *Config) applyFile(file *fileConfig) {
	if file.Port != "" {
		c.Port = file.Port
	}

	if file.UpstreamURL != "" {
		c.UpstreamURL = file.UpstreamURL
	}

	if file.RateLimit != "" {
		c.RateLimit = file.RateLimit
	}

	if file.Classifiers.ServerName != "" {
		c.Classifiers.ServerName = file.Classifiers.ServerName
	}

	if file.Classifiers.LoginPattern != "" {
		c.Classifiers.LoginPattern = file.Classifiers.LoginPattern
	}

	if file.Classifiers.LogoutPattern != "" {
		c.Classifiers.LogoutPattern = file.Classifiers.LogoutPattern
	}
}
