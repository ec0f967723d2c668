package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadMissingFileYieldsDefaults verifies a missing config is not an
// error.
func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Rendering.PerformanceThreshold != 10_000_000 {
		t.Errorf("Expected default threshold, got %d", cfg.Rendering.PerformanceThreshold)
	}
	if cfg.Rendering.DefaultColormap != "gray" {
		t.Errorf("Expected default colormap gray, got %s", cfg.Rendering.DefaultColormap)
	}
	if !cfg.Rendering.Enable3D {
		t.Error("3D must be enabled by default")
	}
	if cfg.DoubleClickTimeout() != 300*time.Millisecond {
		t.Errorf("Expected 300ms double-click timeout, got %v", cfg.DoubleClickTimeout())
	}
}

// TestLoadOverridesDefaults verifies partial files override only what they
// name.
func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "rendering:\n  defaultColormap: bone\n  enable3d: false\ninput:\n  doubleClickTimeoutMs: 450\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Rendering.DefaultColormap != "bone" {
		t.Errorf("Expected colormap bone, got %s", cfg.Rendering.DefaultColormap)
	}
	if cfg.Rendering.Enable3D {
		t.Error("Expected 3D disabled")
	}
	if cfg.Input.DoubleClickTimeoutMS != 450 {
		t.Errorf("Expected 450ms, got %d", cfg.Input.DoubleClickTimeoutMS)
	}
	// Untouched fields keep their defaults.
	if cfg.Rendering.SubsampleStride != 2 {
		t.Errorf("Expected default stride 2, got %d", cfg.Rendering.SubsampleStride)
	}
}

// TestSaveRoundTrip verifies save then load preserves the configuration.
func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.Rendering.PerformanceThreshold = 5_000_000
	cfg.ModalityOrder = []string{"flair", "seg"}
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Rendering.PerformanceThreshold != 5_000_000 {
		t.Errorf("Threshold lost: %d", loaded.Rendering.PerformanceThreshold)
	}
	if len(loaded.ModalityOrder) != 2 || loaded.ModalityOrder[0] != "flair" {
		t.Errorf("Modality order lost: %v", loaded.ModalityOrder)
	}
}

func TestInvalidYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected a parse error")
	}
}
