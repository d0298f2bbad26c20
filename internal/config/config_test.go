package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oxy-stage.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, `
[asset]
path = "scene.gltf"

[audio]
backend = "silent"

[[queue]]
names = ["A", "B"]
delay_ms = 250

[[queue]]
delay_ms = 500
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Asset.Path != "scene.gltf" {
		t.Errorf("Asset.Path = %q, want scene.gltf", cfg.Asset.Path)
	}
	if cfg.Asset.RootScale != [3]float32{2, 2, 1} {
		t.Errorf("Asset.RootScale = %v, want [2 2 1]", cfg.Asset.RootScale)
	}
	if !cfg.Audio.Loop || !cfg.Window.Enabled || !cfg.Log.Console {
		t.Errorf("boolean defaults lost: loop=%v window=%v console=%v", cfg.Audio.Loop, cfg.Window.Enabled, cfg.Log.Console)
	}
	if cfg.Window.Title != "MASSAIÃ" {
		t.Errorf("Window.Title = %q, want MASSAIÃ", cfg.Window.Title)
	}

	if len(cfg.Queue) != 2 {
		t.Fatalf("len(Queue) = %d, want 2", len(cfg.Queue))
	}
	if got := cfg.Queue[0].Delay(); got != 250*time.Millisecond {
		t.Errorf("Queue[0].Delay() = %v, want 250ms", got)
	}
	if len(cfg.Queue[1].Names) != 0 {
		t.Errorf("Queue[1].Names = %v, want a rest step", cfg.Queue[1].Names)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDefaultQueue(t *testing.T) {
	cfg := Default()
	cfg.ApplyDefaults()

	if len(cfg.Queue) != 1 || len(cfg.Queue[0].Names) != 23 {
		t.Fatalf("default queue = %+v, want one batch of 23 names", cfg.Queue)
	}
	if cfg.Queue[0].Names[0] != "21" || cfg.Queue[0].Names[22] != "55" {
		t.Errorf("default names run %s..%s, want 21..55", cfg.Queue[0].Names[0], cfg.Queue[0].Names[22])
	}

	cfg.Queue[0].Names[0] = "changed"
	if DefaultQueue[0].Names[0] != "21" {
		t.Error("ApplyDefaults shares the DefaultQueue backing array")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OXY_STAGE_ASSET", "/tmp/other.glb")
	t.Setenv("OXY_STAGE_LOG_LEVEL", "debug")
	t.Setenv("OXY_STAGE_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("OXY_STAGE_HEADLESS", "true")

	cfg, err := LoadFrom(writeConfig(t, "[asset]\npath = \"scene.glb\"\n"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Asset.Path != "/tmp/other.glb" {
		t.Errorf("Asset.Path = %q, want env override", cfg.Asset.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9090" {
		t.Errorf("HTTP.Addr = %q, want 127.0.0.1:9090", cfg.HTTP.Addr)
	}
	if cfg.Window.Enabled {
		t.Error("Window.Enabled = true with OXY_STAGE_HEADLESS=true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative delay", func(c *Config) { c.Queue[0].DelayMS = -1 }},
		{"zero tick rate", func(c *Config) { c.Engine.TickRate = 0 }},
		{"unknown backend", func(c *Config) { c.Audio.Backend = "alsa" }},
		{"bad clear color", func(c *Config) { c.Window.ClearColor = "green" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.ApplyDefaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	got, err := ParseColor("#020403")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	want := [3]float64{2.0 / 255, 4.0 / 255, 3.0 / 255}
	if got != want {
		t.Errorf("ParseColor(#020403) = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "020403", "#02040", "#zzzzzz"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded, want error", bad)
		}
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadFrom on a missing file succeeded")
	}
}
