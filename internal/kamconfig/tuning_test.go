package kamconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got: %v", err)
	}
	if cfg.FrameW != 480 || cfg.FrameH != 360 {
		t.Errorf("unexpected frame geometry: %dx%d", cfg.FrameW, cfg.FrameH)
	}
	if cfg.Scanlines != 6 {
		t.Errorf("expected 6 scanlines, got %d", cfg.Scanlines)
	}
}

func TestLoadOverlayMergesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.json")
	if err := os.WriteFile(path, []byte(`{"black_threshold": 140, "scanlines": 8}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BlackThreshold != 140 {
		t.Errorf("expected overridden black_threshold=140, got %d", cfg.BlackThreshold)
	}
	if cfg.Scanlines != 8 {
		t.Errorf("expected overridden scanlines=8, got %d", cfg.Scanlines)
	}
	// Untouched fields must retain their default values.
	if cfg.FrameW != 480 {
		t.Errorf("expected untouched frame_w=480, got %d", cfg.FrameW)
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.txt")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for non-.json extension")
	}
}

func TestLoadRejectsInvalidOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.json")
	if err := os.WriteFile(path, []byte(`{"scanlines": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for scanlines=0")
	}
}

func TestValidateCatchesBadThresholds(t *testing.T) {
	cfg := Default()
	cfg.IntoThreshold = cfg.BufferLength + 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when into_threshold exceeds buffer_length")
	}
}
