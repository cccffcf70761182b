package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Dashboard.Retention != nil || cfg.Storage.DBPath != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigDecodesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `[dashboard]
refresh-interval = "45s"
range = "month"
retention = 20

[storage]
db-path = "/tmp/exampulse.db"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Dashboard.RefreshInterval == nil || *cfg.Dashboard.RefreshInterval != "45s" {
		t.Fatalf("unexpected refresh interval: %v", cfg.Dashboard.RefreshInterval)
	}
	if cfg.Dashboard.Range == nil || *cfg.Dashboard.Range != "month" {
		t.Fatalf("unexpected range: %v", cfg.Dashboard.Range)
	}
	if cfg.Dashboard.Retention == nil || *cfg.Dashboard.Retention != 20 {
		t.Fatalf("unexpected retention: %v", cfg.Dashboard.Retention)
	}
	if cfg.Dashboard.RecentLimit != nil {
		t.Fatalf("expected recent-limit to stay unset")
	}
	if cfg.Storage.DBPath == nil || *cfg.Storage.DBPath != "/tmp/exampulse.db" {
		t.Fatalf("unexpected db path: %v", cfg.Storage.DBPath)
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[dashboard]\nrefresh = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "dashboard.refresh") {
		t.Fatalf("expected key name in error, got %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("EXAMPULSE_DB_PATH", "/data/dash.db")
	t.Setenv("EXAMPULSE_REFRESH_INTERVAL", "10s")
	t.Setenv("EXAMPULSE_RETENTION", "25")

	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.DBPath != "/data/dash.db" {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.RefreshInterval != 10*time.Second {
		t.Fatalf("unexpected refresh interval %v", cfg.RefreshInterval)
	}
	if cfg.Retention != 25 {
		t.Fatalf("unexpected retention %d", cfg.Retention)
	}
	if cfg.Range != "" {
		t.Fatalf("expected range unset, got %q", cfg.Range)
	}
}

func TestLoadEnvError(t *testing.T) {
	t.Setenv("EXAMPULSE_RETENTION", "lots")

	_, err := LoadEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")

	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "exampulse", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "exampulse", "exampulse.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
