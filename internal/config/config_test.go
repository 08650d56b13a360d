package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmfields/ratebadge/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Listen != "127.0.0.1:8731" {
		t.Errorf("listen = %q", cfg.Server.Listen)
	}
	if cfg.Limits.MaxConcurrent != 5 || cfg.Limits.RequestDelayMS != 110 || cfg.Limits.WindowCap != 9 {
		t.Errorf("unexpected limit defaults: %+v", cfg.Limits)
	}
	if cfg.Matching.MinScore != 0.7 {
		t.Errorf("min score = %v, want 0.7", cfg.Matching.MinScore)
	}
	if cfg.Cache.MaxAgeDays != 30 {
		t.Errorf("cache max age = %d days, want 30", cfg.Cache.MaxAgeDays)
	}
	wantCache := filepath.Join(tempHome, ".local", "share", "ratebadge", "cache")
	if cfg.Cache.Dir != wantCache {
		t.Errorf("cache dir = %q, want %q", cfg.Cache.Dir, wantCache)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
	if cfg.Search.BaseURL != "" {
		t.Errorf("search base url default = %q, want empty (public endpoint)", cfg.Search.BaseURL)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	confDir := filepath.Join(tempHome, ".config", "ratebadge")
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}
	yaml := `
server:
  listen: "127.0.0.1:9999"
search:
  base_url: "http://localhost:8080"
limits:
  max_concurrent: 2
  request_delay_ms: 250
matching:
  min_score: 0.85
cache:
  max_age_days: 7
`
	if err := os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Listen != "127.0.0.1:9999" {
		t.Errorf("listen = %q", cfg.Server.Listen)
	}
	if cfg.Search.BaseURL != "http://localhost:8080" {
		t.Errorf("base url = %q", cfg.Search.BaseURL)
	}
	if cfg.Limits.MaxConcurrent != 2 || cfg.Limits.RequestDelayMS != 250 {
		t.Errorf("limits not loaded: %+v", cfg.Limits)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Limits.WindowCap != 9 {
		t.Errorf("window cap = %d, want default 9", cfg.Limits.WindowCap)
	}
	if cfg.Matching.MinScore != 0.85 {
		t.Errorf("min score = %v", cfg.Matching.MinScore)
	}
	if cfg.Cache.MaxAgeDays != 7 {
		t.Errorf("cache max age = %d", cfg.Cache.MaxAgeDays)
	}
}
