package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_CreatesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	if cfg.Server.Port != 8025 {
		t.Errorf("expected default port 8025, got %d", cfg.Server.Port)
	}
	if cfg.Planner.MaxDistance != Distance(50000) {
		t.Errorf("expected default max distance 50000m, got %v", cfg.Planner.MaxDistance)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.yaml")

	data := []byte("server:\n  host: 127.0.0.1\n  port: 9000\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000 from file, got %d", cfg.Server.Port)
	}
	// fields absent from the file should keep their defaults
	if cfg.Cache.Precision != 0.005 {
		t.Errorf("expected default cache precision, got %v", cfg.Cache.Precision)
	}
}

func TestServerConfig_Address(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: 8025}
	if got := s.Address(); got != "0.0.0.0:8025" {
		t.Errorf("Address() = %q, want %q", got, "0.0.0.0:8025")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "10.0.0.5")
	t.Setenv("TILE_URL", "https://example.test/{z}/{x}/{y}.png")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Host != "10.0.0.5" {
		t.Errorf("expected SERVER_HOST override, got %q", cfg.Server.Host)
	}
	if cfg.Web.TileURL != "https://example.test/{z}/{x}/{y}.png" {
		t.Errorf("expected TILE_URL override, got %q", cfg.Web.TileURL)
	}
}
