// Package audiocapture reads fixed-size blocks of interleaved float32 samples
// from the default input device and feeds them to a consumer.
package audiocapture

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnsupported is returned by Open when the build has no capture backend.
var ErrUnsupported = errors.New("audiocapture: no capture backend in this build")

// ErrClosed is returned by ReadBlock after Close.
var ErrClosed = errors.New("audiocapture: source closed")

// ErrBlockSize is returned when a read buffer does not match the block size.
var ErrBlockSize = errors.New("audiocapture: buffer does not match block size")

// Source produces blocks of interleaved samples.
type Source interface {
	// ReadBlock blocks until one block is available and copies it into buf,
	// which must hold exactly Config.BlockSamples() values.
	ReadBlock(buf []float32) error
	Close() error
}

// Config holds configuration for audio capture.
type Config struct {
	SampleRate  int // Hz, default 44100
	Channels    int // default 2
	BlockFrames int // frames per read, default 512
}

// DefaultConfig returns the default capture configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:  44100,
		Channels:    2,
		BlockFrames: 512,
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.SampleRate <= 0 {
		c.SampleRate = def.SampleRate
	}
	if c.Channels <= 0 {
		c.Channels = def.Channels
	}
	if c.BlockFrames <= 0 {
		c.BlockFrames = def.BlockFrames
	}
	return c
}

// BlockSamples returns the number of interleaved values in one block.
func (c Config) BlockSamples() int {
	return c.BlockFrames * c.Channels
}

// BlockDuration returns how much audio one block holds.
func (c Config) BlockDuration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.BlockFrames) * time.Second / time.Duration(c.SampleRate)
}

func checkBlock(buf []float32, want int) error {
	if len(buf) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrBlockSize, len(buf), want)
	}
	return nil
}
