package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Rows != 15 || cfg.Cols != 20 {
		t.Errorf("expected 15x20, got %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.RevealInterval().Milliseconds() != 100 {
		t.Errorf("expected 100ms reveal, got %v", cfg.RevealInterval())
	}
	if cfg.FadePeriod().Milliseconds() != 2000 {
		t.Errorf("expected 2000ms fade, got %v", cfg.FadePeriod())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("wide")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Cols != 40 {
		t.Errorf("expected 40 cols, got %d", cfg.Cols)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	if presets[0] != "banner" {
		t.Errorf("expected sorted names, got %v", presets)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apply(GetPreset("tiny"))
	if cfg.Rows != 8 || cfg.Cols != 12 || cfg.TextSize != "small" {
		t.Errorf("preset not applied: %+v", cfg)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Error("preset overwrote unrelated field")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backlight.yaml")
	cfg := DefaultConfig()
	cfg.Cols = 32
	cfg.Colors.Light = "#ff0000"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Cols != 32 {
		t.Errorf("expected 32 cols, got %d", loaded.Cols)
	}
	p, err := loaded.Palette()
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	if p.Light != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("unexpected light color %v", p.Light)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("cols: 30\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Cols != 30 || cfg.Rows != DefaultRows {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero rows", "rows: 0\n"},
		{"bad color", "colors:\n  mark: '#12'\n"},
		{"bad size", "text_size: huge\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#abc")
	if err != nil {
		t.Fatal(err)
	}
	if c != (color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}) {
		t.Errorf("unexpected color %v", c)
	}
	if _, err := ParseHex("zzzzzz"); err == nil {
		t.Error("expected error for non-hex")
	}
}
