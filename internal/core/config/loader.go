package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := AppConfig{Monitor: DefaultMonitor()}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Monitor.SamplingInterval == 0 {
		cfg.Monitor.SamplingInterval = DefaultMonitor().SamplingInterval
	}
	if cfg.Monitor.Retention.MaxHistoryEntries == 0 {
		cfg.Monitor.Retention.MaxHistoryEntries = DefaultMonitor().Retention.MaxHistoryEntries
	}
	if cfg.Pool.Driver == "" {
		cfg.Pool.Driver = "pgx"
	}

	return &cfg, nil
}
