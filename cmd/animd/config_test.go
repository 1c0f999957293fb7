package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Addr != ":8080" {
		t.Fatalf("expected the default addr, got %q", config.Addr)
	}
	if len(config.CatalogPaths) != 2 {
		t.Fatalf("expected the default catalog paths, got %v", config.CatalogPaths)
	}
	if config.LogLevel != "info" {
		t.Fatalf("expected the default log level, got %q", config.LogLevel)
	}
	if got := config.debounce(); got != 250*time.Millisecond {
		t.Fatalf("expected the default debounce, got %v", got)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animd.yaml")
	content := []byte("addr: \":9000\"\nhistorySize: 16\ncatalogPaths:\n  - one.json\n  - two.json\nlogLevel: debug\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Addr != ":9000" {
		t.Fatalf("expected the file addr, got %q", config.Addr)
	}
	if config.HistorySize != 16 {
		t.Fatalf("expected historySize 16, got %d", config.HistorySize)
	}
	if len(config.CatalogPaths) != 2 || config.CatalogPaths[0] != "one.json" || config.CatalogPaths[1] != "two.json" {
		t.Fatalf("expected the file catalog paths, got %v", config.CatalogPaths)
	}
	if config.LogLevel != "debug" {
		t.Fatalf("expected log level debug, got %q", config.LogLevel)
	}
	// Untouched keys keep their defaults.
	if config.WatchDebounceMillis != 250 {
		t.Fatalf("expected the default debounce to survive, got %d", config.WatchDebounceMillis)
	}
}

func TestLoadConfigRejectsMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty-addr", func(c *Config) { c.Addr = "  " }, "addr"},
		{"no-paths", func(c *Config) { c.CatalogPaths = nil }, "catalog path"},
		{"negative-history", func(c *Config) { c.HistorySize = -1 }, "historySize"},
		{"negative-debounce", func(c *Config) { c.WatchDebounceMillis = -1 }, "watchDebounceMillis"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			err := config.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("expected the config to validate, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected a validation error mentioning %q", tc.want)
			}
		})
	}
}

func TestSplitPaths(t *testing.T) {
	got := splitPaths(" a.json, ,b.json ,")
	if len(got) != 2 || got[0] != "a.json" || got[1] != "b.json" {
		t.Fatalf("unexpected paths %v", got)
	}
}
