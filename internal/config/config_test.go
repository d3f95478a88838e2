package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[detection]\nprominence = 0.5\n\n[export]\nplot_dir = \"out\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Detection.Prominence != 0.5 {
		t.Fatalf("prominence = %g, want 0.5", cfg.Detection.Prominence)
	}
	if cfg.Export.PlotDir != "out" {
		t.Fatalf("plot_dir = %q, want out", cfg.Export.PlotDir)
	}
	// Unset fields keep their defaults.
	if cfg.Detection.MinWidth != Default().Detection.MinWidth {
		t.Fatalf("min_width = %g, want default", cfg.Detection.MinWidth)
	}
	if cfg.Export.ChartWidth != Default().Export.ChartWidth {
		t.Fatalf("chart_width = %d, want default", cfg.Export.ChartWidth)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[detection]\nprominence = -1.0\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for negative prominence")
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not toml ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}

	// The sample must parse and validate.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("sample config = %+v, want defaults", cfg)
	}

	if err := WriteSample(path); err == nil {
		t.Fatal("WriteSample must refuse to overwrite")
	}
}
