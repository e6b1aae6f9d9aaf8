package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"odd height", func(c *Config) { c.Height = 1081 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"negative time scale", func(c *Config) { c.TimeScale = -1 }},
		{"zero chunk", func(c *Config) { c.FramesPerChunk = 0 }},
	}

	for _, tc := range cases {
		cfg := Default()
		tc.mod(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestProfileOverlaysOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	data := `
fps: 60
quality: 18
background_color: "#000000"
time_scale: 0.5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	p.Apply(cfg)

	if cfg.FPS != 60 || cfg.Quality != 18 || cfg.BackgroundColor != "#000000" || cfg.TimeScale != 0.5 {
		t.Errorf("profile not applied: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.Width != 1920 || cfg.FramesPerChunk != 200 {
		t.Errorf("unset profile keys clobbered defaults: %+v", cfg)
	}
}

func TestLoadProfileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("fps: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Error("expected parse error")
	}
}
