package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Asset  AssetConfig   `toml:"asset"`
	Audio  AudioConfig   `toml:"audio"`
	Engine EngineConfig  `toml:"engine"`
	Window WindowConfig  `toml:"window"`
	HTTP   HTTPConfig    `toml:"http"`
	Log    LogConfig     `toml:"log"`
	Queue  []BatchConfig `toml:"queue"`
}

// AssetConfig names the animated scene and how it is placed.
type AssetConfig struct {
	Path      string     `toml:"path"`
	RootScale [3]float32 `toml:"root_scale"`
}

// AudioConfig holds soundtrack settings.
type AudioConfig struct {
	Path    string `toml:"path"`
	Loop    bool   `toml:"loop"`
	Backend string `toml:"backend"`
}

// EngineConfig holds tick loop settings.
type EngineConfig struct {
	TickRate  int  `toml:"tick_rate"`
	Profiling bool `toml:"profiling"`
}

// WindowConfig holds presentation window settings.
type WindowConfig struct {
	Enabled    bool   `toml:"enabled"`
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	ClearColor string `toml:"clear_color"`
}

// HTTPConfig holds the status/control endpoint settings. An empty Addr disables it.
type HTTPConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

// BatchConfig is one step of the animation queue.
type BatchConfig struct {
	Names   []string `toml:"names"`
	DelayMS int      `toml:"delay_ms"`
}

// Delay returns the post-batch delay.
func (b BatchConfig) Delay() time.Duration {
	return time.Duration(b.DelayMS) * time.Millisecond
}
