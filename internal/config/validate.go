package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidConfig wraps every error returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Asset.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("asset: %w", err))
	}
	if err := c.Audio.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}
	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}
	if err := c.Window.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("window: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	for i, b := range c.Queue {
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("queue[%d]: %w", i, err))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Validate checks AssetConfig for errors.
func (c *AssetConfig) Validate() error {
	if c.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

// Validate checks AudioConfig for errors.
func (c *AudioConfig) Validate() error {
	switch c.Backend {
	case "speaker":
		if c.Path == "" {
			return errors.New("path is required for the speaker backend")
		}
	case "silent":
	default:
		return fmt.Errorf("invalid backend: %s (must be speaker or silent)", c.Backend)
	}
	return nil
}

// Validate checks EngineConfig for errors.
func (c *EngineConfig) Validate() error {
	if c.TickRate <= 0 {
		return errors.New("tick_rate must be positive")
	}
	return nil
}

// Validate checks WindowConfig for errors.
func (c *WindowConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New("width and height must be positive")
	}
	if _, err := ParseColor(c.ClearColor); err != nil {
		return fmt.Errorf("clear_color: %w", err)
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be trace, debug, info, warn, or error)", c.Level)
	}
	return nil
}

// Validate checks BatchConfig for errors.
func (c *BatchConfig) Validate() error {
	if c.DelayMS < 0 {
		return errors.New("delay_ms must be non-negative")
	}
	return nil
}

// ParseColor parses "#rrggbb" into components in [0, 1].
func ParseColor(s string) ([3]float64, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return [3]float64{}, fmt.Errorf("%q is not #rrggbb", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]float64{}, fmt.Errorf("%q is not #rrggbb", s)
	}
	return [3]float64{
		float64(v>>16&0xff) / 255,
		float64(v>>8&0xff) / 255,
		float64(v&0xff) / 255,
	}, nil
}
