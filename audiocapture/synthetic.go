package audiocapture

import (
	"math"
	"time"
)

// Synthetic is a deterministic sine source. Every channel carries the same
// signal. With Realtime set, ReadBlock sleeps for one block duration so the
// source paces like a device.
type Synthetic struct {
	cfg       Config
	amplitude float64
	step      float64
	phase     float64
	closed    bool

	Realtime bool
}

// NewSynthetic creates a sine source of the given peak amplitude and
// frequency.
func NewSynthetic(cfg Config, amplitude, freqHz float64) *Synthetic {
	cfg = cfg.WithDefaults()
	return &Synthetic{
		cfg:       cfg,
		amplitude: amplitude,
		step:      2 * math.Pi * freqHz / float64(cfg.SampleRate),
	}
}

func (s *Synthetic) ReadBlock(buf []float32) error {
	if s.closed {
		return ErrClosed
	}
	if err := checkBlock(buf, s.cfg.BlockSamples()); err != nil {
		return err
	}
	if s.Realtime {
		time.Sleep(s.cfg.BlockDuration())
	}

	ch := s.cfg.Channels
	for i := 0; i < len(buf); i += ch {
		v := float32(s.amplitude * math.Sin(s.phase))
		for c := 0; c < ch; c++ {
			buf[i+c] = v
		}
		s.phase = math.Mod(s.phase+s.step, 2*math.Pi)
	}
	return nil
}

func (s *Synthetic) Close() error {
	s.closed = true
	return nil
}
