// Package config handles application configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.aimuz.me/vumeter/audiocapture"
	"go.aimuz.me/vumeter/vu"
)

const (
	appName        = "vumeter"
	configFileName = "config.json"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config represents the application configuration.
type Config struct {
	Audio AudioConfig `json:"audio"`
	Meter MeterConfig `json:"meter"`
	Log   LogConfig   `json:"log"`

	// DialPath points at an SVG dial background. Empty uses the built-in dial.
	DialPath string `json:"dial_path,omitempty"`
}

// AudioConfig describes the capture stream and the loudness window.
type AudioConfig struct {
	SampleRate    int     `json:"sample_rate"`
	Channels      int     `json:"channels"`
	BlockFrames   int     `json:"block_frames"`
	WindowSeconds float64 `json:"window_seconds"`
}

// MeterConfig describes the needle mapping and animation.
type MeterConfig struct {
	RangeDegrees   float64 `json:"range_degrees"`
	PreampDB       float64 `json:"preamp_db"`
	FrameRate      int     `json:"frame_rate"`
	MotionCutoffHz float64 `json:"motion_cutoff_hz"` // 0 disables needle ballistics
}

// LogConfig selects the log handler.
type LogConfig struct {
	Format string `json:"format"` // "text" or "json"
	Level  string `json:"level"`  // "debug", "info", "warn", "error"
}

// Default returns the built-in configuration.
func Default() *Config {
	capture := audiocapture.DefaultConfig()
	return &Config{
		Audio: AudioConfig{
			SampleRate:    capture.SampleRate,
			Channels:      capture.Channels,
			BlockFrames:   capture.BlockFrames,
			WindowSeconds: 0.3,
		},
		Meter: MeterConfig{
			RangeDegrees: vu.DefaultRangeDegrees,
			FrameRate:    60,
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// Path returns the location of the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// Load loads configuration from the config file.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults, so a file may set only the fields
// it cares about. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// SaveFile writes the configuration to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate reports the first setting that cannot drive the meter.
func (c *Config) Validate() error {
	switch {
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: sample_rate must be positive", ErrInvalid)
	case c.Audio.Channels <= 0:
		return fmt.Errorf("%w: channels must be positive", ErrInvalid)
	case c.Audio.BlockFrames <= 0:
		return fmt.Errorf("%w: block_frames must be positive", ErrInvalid)
	case !(c.Audio.WindowSeconds > 0) || math.IsInf(c.Audio.WindowSeconds, 0):
		return fmt.Errorf("%w: window_seconds must be positive", ErrInvalid)
	case c.Meter.FrameRate <= 0:
		return fmt.Errorf("%w: frame_rate must be positive", ErrInvalid)
	case c.Meter.MotionCutoffHz < 0 || math.IsNaN(c.Meter.MotionCutoffHz):
		return fmt.Errorf("%w: motion_cutoff_hz must not be negative", ErrInvalid)
	case math.Abs(c.Meter.PreampDB) > vu.MaxPreampDB || math.IsNaN(c.Meter.PreampDB):
		return fmt.Errorf("%w: preamp_db must be within ±%v", ErrInvalid, vu.MaxPreampDB)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Log.Format)
	}
	if err := c.Scale().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Capacity returns the rolling buffer size in samples: whole frames covering
// the loudness window.
func (c *Config) Capacity() int {
	frames := int(math.Round(c.Audio.WindowSeconds * float64(c.Audio.SampleRate)))
	return max(frames, 1) * c.Audio.Channels
}

// BlockSamples returns the interleaved samples per capture block.
func (c *Config) BlockSamples() int {
	return c.Audio.BlockFrames * c.Audio.Channels
}

// Capture returns the capture stream configuration.
func (c *Config) Capture() audiocapture.Config {
	return audiocapture.Config{
		SampleRate:  c.Audio.SampleRate,
		Channels:    c.Audio.Channels,
		BlockFrames: c.Audio.BlockFrames,
	}
}

// Scale returns the needle mapping including the configured preamp.
func (c *Config) Scale() vu.Scale {
	return vu.Scale{
		Channels: c.Audio.Channels,
		Range:    vu.Radians(c.Meter.RangeDegrees),
	}.WithPreamp(c.Meter.PreampDB)
}

// FrameInterval returns the target time per rendered frame.
func (c *Config) FrameInterval() time.Duration {
	if c.Meter.FrameRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.Meter.FrameRate)
}
