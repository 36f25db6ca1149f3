package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.App.LogLevel != "info" {
		t.Errorf("Expected log level 'info', got %q", cfg.App.LogLevel)
	}
	if cfg.Search.Provider != "tavily" || cfg.Search.MaxResults != 5 {
		t.Errorf("Unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Validate.Timeout != 3*time.Second {
		t.Errorf("Expected 3s validate timeout, got %v", cfg.Validate.Timeout)
	}
	if cfg.Validate.MinImageBytes != 5120 || cfg.Validate.Concurrency != 10 {
		t.Errorf("Unexpected validate defaults: %+v", cfg.Validate)
	}
	if cfg.Render.Timeout != 10*time.Second || cfg.Render.SettleDelay != 2*time.Second {
		t.Errorf("Unexpected render defaults: %+v", cfg.Render)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Expected port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Email.BaseURL != "https://api.stibee.com/v2" {
		t.Errorf("Unexpected email base URL: %q", cfg.Email.BaseURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load(writeConfig(t, `
app:
  log_level: debug
search:
  max_results: 9
render:
  settle_delay: 500ms
`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.App.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got %q", cfg.App.LogLevel)
	}
	if cfg.Search.MaxResults != 9 {
		t.Errorf("Expected max_results 9, got %d", cfg.Search.MaxResults)
	}
	if cfg.Render.SettleDelay != 500*time.Millisecond {
		t.Errorf("Expected 500ms settle delay, got %v", cfg.Render.SettleDelay)
	}
	// Untouched sections keep their defaults.
	if cfg.Validate.Concurrency != 10 {
		t.Errorf("Expected default validate concurrency, got %d", cfg.Validate.Concurrency)
	}
}

func TestLoadEnvironmentBindings(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("TAVILY_API_KEY", "tvly-env")
	t.Setenv("STIBEE_API_KEY", "stibee-env")
	t.Setenv("STIBEE_LIST_ID", "314")

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Search.Tavily.APIKey != "tvly-env" {
		t.Errorf("Expected Tavily key from env, got %q", cfg.Search.Tavily.APIKey)
	}
	if cfg.Email.APIKey != "stibee-env" || cfg.Email.ListID != "314" {
		t.Errorf("Expected Stibee settings from env, got %+v", cfg.Email)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"non-positive max_results", "search:\n  max_results: 0\n"},
		{"non-positive validate concurrency", "validate:\n  concurrency: -1\n"},
		{"port out of range", "server:\n  port: 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			t.Cleanup(Reset)

			if _, err := Load(writeConfig(t, tt.yaml)); err == nil {
				t.Error("Expected a validation error")
			}
		})
	}
}

func TestLoadCachesGlobalConfig(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := Load("ignored-after-first-load.yaml")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first != second {
		t.Error("Expected the cached config on repeat loads")
	}
}

// writeConfig drops a YAML config file into a temp dir and returns its path.
func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "letterly.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}
