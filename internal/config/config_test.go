package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Data.Path != nil || cfg.Ripley.Radii != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[data]
path = "export.csv"
models = ["RGB", "Oklab"]
min-level = 4
workers = 2

[ripley]
radii = "5:30:5"
deviation = true

[jindex]
grid-step = 2.5

[quadrat]
max-res = 64

[voronoi]
metric = "stddev"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Data.Path == nil || *cfg.Data.Path != "export.csv" {
		t.Fatalf("unexpected data path: %v", cfg.Data.Path)
	}
	if strings.Join(cfg.Data.Models, ",") != "RGB,Oklab" {
		t.Fatalf("unexpected models: %v", cfg.Data.Models)
	}
	if cfg.Data.MinLevel == nil || *cfg.Data.MinLevel != 4 {
		t.Fatalf("unexpected min level: %v", cfg.Data.MinLevel)
	}
	if cfg.Data.Table != nil {
		t.Fatalf("table should stay unset")
	}
	if cfg.Ripley.Radii == nil || *cfg.Ripley.Radii != "5:30:5" {
		t.Fatalf("unexpected radii: %v", cfg.Ripley.Radii)
	}
	if cfg.Ripley.Deviation == nil || !*cfg.Ripley.Deviation {
		t.Fatalf("expected deviation to be set")
	}
	if cfg.JIndex.GridStep == nil || *cfg.JIndex.GridStep != 2.5 {
		t.Fatalf("unexpected grid step: %v", cfg.JIndex.GridStep)
	}
	if cfg.Quadrat.MaxRes == nil || *cfg.Quadrat.MaxRes != 64 {
		t.Fatalf("unexpected max res: %v", cfg.Quadrat.MaxRes)
	}
	if cfg.Voronoi.Metric == nil || *cfg.Voronoi.Metric != "stddev" {
		t.Fatalf("unexpected metric: %v", cfg.Voronoi.Metric)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ripley]\nradius = \"5\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "ripley.radius") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/xdg", "huepattern", "config.toml") {
		t.Fatalf("unexpected path: %s", got)
	}
}
