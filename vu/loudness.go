package vu

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

const (
	// DefaultRangeDegrees is the needle deflection either side of center.
	DefaultRangeDegrees = 47.0

	// MinLoudness is the floor applied before the angle mapping. Silence,
	// negative or NaN power all land here, which is exactly -Range.
	MinLoudness = -1.0

	// PreampStepDB is the increment used by preamp controls.
	PreampStepDB = 6.0
	// MaxPreampDB bounds the preamp in both directions.
	MaxPreampDB = 96.0
)

// ErrInvalidScale is returned by Scale.Validate.
var ErrInvalidScale = errors.New("vu: invalid scale")

// Scale maps interleaved sample history to needle angles.
//
// The mapping is loudness = 1 + log10(gain * rms), so an RMS amplitude of 0.1
// at unity gain puts the needle at center, and angle = Range * loudness
// clamped to [-Range, +Range].
type Scale struct {
	Channels int
	Range    float64 // radians
	Gain     float64 // linear multiplier on RMS; zero means unity
}

// DefaultScale returns a stereo scale with a 47 degree range and unity gain.
func DefaultScale() Scale {
	return Scale{
		Channels: 2,
		Range:    Radians(DefaultRangeDegrees),
		Gain:     1,
	}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Validate checks that the scale can produce finite angles.
func (s Scale) Validate() error {
	if s.Channels <= 0 {
		return fmt.Errorf("%w: channels must be positive, got %d", ErrInvalidScale, s.Channels)
	}
	if !(s.Range > 0) || s.Range > math.Pi {
		return fmt.Errorf("%w: range must be in (0, pi], got %v", ErrInvalidScale, s.Range)
	}
	if s.Gain < 0 || math.IsNaN(s.Gain) || math.IsInf(s.Gain, 0) {
		return fmt.Errorf("%w: gain must be finite and non-negative, got %v", ErrInvalidScale, s.Gain)
	}
	return nil
}

// WithPreamp returns a copy of s whose gain corresponds to db, clamped to
// ±MaxPreampDB.
func (s Scale) WithPreamp(db float64) Scale {
	s.Gain = GainForDB(db)
	return s
}

func (s Scale) gain() float64 {
	if s.Gain == 0 {
		return 1
	}
	return s.Gain
}

// Angles returns one needle angle per channel for an interleaved snapshot.
// It is pure: the same snapshot always yields the same angles.
func (s Scale) Angles(snapshot []float32) []float64 {
	angles := make([]float64, s.Channels)
	for ch := range angles {
		angles[ch] = s.AngleForAmplitude(math.Sqrt(ChannelPower(snapshot, s.Channels, ch)))
	}
	return angles
}

// RMS returns the per-channel RMS of snapshot after gain.
func (s Scale) RMS(snapshot []float32) []float64 {
	rms := make([]float64, s.Channels)
	for ch := range rms {
		rms[ch] = s.gain() * math.Sqrt(ChannelPower(snapshot, s.Channels, ch))
	}
	return rms
}

// AngleForAmplitude maps an ungained RMS amplitude to a needle angle.
func (s Scale) AngleForAmplitude(rms float64) float64 {
	return s.Angle(amplitudeLoudness(s.gain() * rms))
}

// Angle maps a loudness value to a needle angle in [-Range, +Range].
func (s Scale) Angle(loudness float64) float64 {
	if math.IsNaN(loudness) {
		return -s.Range
	}
	return core.Clamp(s.Range*loudness, -s.Range, s.Range)
}

// ChannelPower returns the mean of squares of channel ch in an interleaved
// snapshot. A channel with no samples has zero power.
func ChannelPower(snapshot []float32, channels, ch int) float64 {
	if channels <= 0 || ch < 0 || ch >= channels {
		return 0
	}
	var sum float64
	n := 0
	for i := ch; i < len(snapshot); i += channels {
		x := float64(snapshot[i])
		sum += x * x
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Loudness returns 1 + log10(sqrt(power)), floored at MinLoudness.
func Loudness(power float64) float64 {
	if !(power > 0) {
		return MinLoudness
	}
	return amplitudeLoudness(math.Sqrt(power))
}

func amplitudeLoudness(rms float64) float64 {
	// Also catches NaN.
	if !(rms > 0) {
		return MinLoudness
	}
	return max(1+math.Log10(rms), MinLoudness)
}

// GainForDB converts a preamp setting to a linear gain.
func GainForDB(db float64) float64 {
	return core.DBToLinear(ClampPreampDB(db))
}

// ClampPreampDB limits db to ±MaxPreampDB. NaN becomes 0.
func ClampPreampDB(db float64) float64 {
	if math.IsNaN(db) {
		return 0
	}
	return core.Clamp(db, -MaxPreampDB, MaxPreampDB)
}

// Decibels converts an RMS amplitude to dBFS. Silence is -Inf.
func Decibels(rms float64) float64 {
	if !(rms > 0) {
		return math.Inf(-1)
	}
	return core.LinearToDB(rms)
}
