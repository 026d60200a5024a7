package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWorkers     = 4
	DefaultLogLevel    = "info"
	DefaultMetricsAddr = "localhost:9090"
)

type Config struct {
	LogLevel    string   `yaml:"log_level"`
	MetricsAddr string   `yaml:"metrics_addr"`
	Dispatch    Dispatch `yaml:"dispatch"`
}

// Dispatch configures the worker pool draining the envelope queue.
type Dispatch struct {
	Workers int `yaml:"workers"`
}

func Default() *Config {
	return &Config{
		LogLevel:    DefaultLogLevel,
		MetricsAddr: DefaultMetricsAddr,
		Dispatch:    Dispatch{Workers: DefaultWorkers},
	}
}

// Load reads the YAML file at path (skipped when path is empty), then
// applies ENVELOPE_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if v := os.Getenv("ENVELOPE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ENVELOPE_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("ENVELOPE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Dispatch.Workers = n
		}
	}
	if cfg.Dispatch.Workers <= 0 {
		cfg.Dispatch.Workers = DefaultWorkers
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return cfg, nil
}
