package main

import (
	"errors"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"rune-and-ruin/graphics/animations/catalog"
)

// Config drives the dev server. Values from the config file are overridden
// by command line flags.
type Config struct {
	Addr                string   `yaml:"addr"`
	CatalogPaths        []string `yaml:"catalogPaths"`
	HistorySize         int      `yaml:"historySize"`
	LogLevel            string   `yaml:"logLevel"`
	WatchDebounceMillis int      `yaml:"watchDebounceMillis"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:                ":8080",
		CatalogPaths:        catalog.DefaultPaths(),
		HistorySize:         0, // 0 keeps the server's default bound
		LogLevel:            "info",
		WatchDebounceMillis: 250,
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults untouched.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr must not be empty")
	}
	if len(c.CatalogPaths) == 0 {
		return errors.New("at least one catalog path is required")
	}
	if c.HistorySize < 0 {
		return errors.New("historySize must not be negative")
	}
	if c.WatchDebounceMillis < 0 {
		return errors.New("watchDebounceMillis must not be negative")
	}
	return nil
}

func (c *Config) debounce() time.Duration {
	return time.Duration(c.WatchDebounceMillis) * time.Millisecond
}

func splitPaths(raw string) []string {
	parts := strings.Split(raw, ",")
	paths := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		paths = append(paths, trimmed)
	}
	return paths
}
