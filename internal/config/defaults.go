package config

// DefaultQueue is the clip order of the original presentation: every note
// played together as a single batch.
var DefaultQueue = []BatchConfig{{
	Names: []string{
		"21", "22", "26", "27", "31", "32", "34", "35", "36", "37", "38", "39",
		"40", "41", "42", "43", "44", "45", "48", "49", "50", "53", "55",
	},
	DelayMS: 0,
}}

// Default returns a Config populated with sensible defaults. Queue is left
// empty; ApplyDefaults fills it when no queue was configured.
func Default() *Config {
	return &Config{
		Asset: AssetConfig{
			Path:      "assets/notas22.glb",
			RootScale: [3]float32{2, 2, 1},
		},
		Audio: AudioConfig{
			Path:    "assets/Massaia.wav",
			Loop:    true,
			Backend: "speaker",
		},
		Engine: EngineConfig{
			TickRate: 60,
		},
		Window: WindowConfig{
			Enabled:    true,
			Title:      "MASSAIÃ",
			Width:      1280,
			Height:     720,
			ClearColor: "#020403",
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Asset.Path == "" {
		c.Asset.Path = d.Asset.Path
	}
	if c.Asset.RootScale == [3]float32{} {
		c.Asset.RootScale = d.Asset.RootScale
	}

	if c.Audio.Backend == "" {
		c.Audio.Backend = d.Audio.Backend
	}

	if c.Engine.TickRate == 0 {
		c.Engine.TickRate = d.Engine.TickRate
	}

	if c.Window.Title == "" {
		c.Window.Title = d.Window.Title
	}
	if c.Window.Width == 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height == 0 {
		c.Window.Height = d.Window.Height
	}
	if c.Window.ClearColor == "" {
		c.Window.ClearColor = d.Window.ClearColor
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}

	if len(c.Queue) == 0 {
		c.Queue = make([]BatchConfig, len(DefaultQueue))
		for i, b := range DefaultQueue {
			c.Queue[i] = BatchConfig{Names: append([]string(nil), b.Names...), DelayMS: b.DelayMS}
		}
	}
}
