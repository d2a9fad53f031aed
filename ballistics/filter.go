// Package ballistics gives the needle mechanical inertia by low-pass
// filtering the displayed angle at the frame rate.
package ballistics

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

const (
	order      = 2
	defaultFPS = 60
	// The filter runs at frame rate, so keep the cutoff well below Nyquist.
	minFPSPerCutoff = 4
)

// Filter smooths per-channel needle angles with a Butterworth low-pass.
// A zero-value cutoff disables it.
type Filter struct {
	cutoff float64
	fps    int
	chains []*biquad.Chain
	offset []float64
	primed bool
}

// New creates a filter for channels needles. cutoffHz <= 0 yields a
// pass-through filter.
func New(cutoffHz, fps float64, channels int) *Filter {
	f := &Filter{cutoff: cutoffHz}
	if !f.Enabled() {
		return f
	}
	f.fps = f.effectiveFPS(fps)
	coeffs := design.ButterworthLP(f.cutoff, order, float64(f.fps))
	f.chains = make([]*biquad.Chain, channels)
	for i := range f.chains {
		f.chains[i] = biquad.NewChain(coeffs)
	}
	f.offset = make([]float64, channels)
	return f
}

// Enabled reports whether angles are filtered.
func (f *Filter) Enabled() bool {
	return f.cutoff > 0
}

// FPS returns the frame rate the coefficients were designed for.
func (f *Filter) FPS() int {
	return f.fps
}

// Retune redesigns the coefficients for a new frame rate, keeping the
// filter state. It reports whether anything changed.
func (f *Filter) Retune(fps float64) bool {
	if !f.Enabled() {
		return false
	}
	next := f.effectiveFPS(fps)
	if next == f.fps {
		return false
	}
	f.fps = next
	coeffs := design.ButterworthLP(f.cutoff, order, float64(f.fps))
	for _, c := range f.chains {
		c.UpdateCoefficients(coeffs, 1)
	}
	return true
}

// Process filters one frame of angles. The first frame is passed through and
// becomes the filter's resting point, so the needle does not swing in from
// zero.
func (f *Filter) Process(angles []float64) []float64 {
	out := make([]float64, len(angles))
	copy(out, angles)
	if !f.Enabled() {
		return out
	}
	if !f.primed {
		for i := range f.offset {
			if i < len(angles) {
				f.offset[i] = angles[i]
			}
		}
		f.primed = true
	}
	for i := range out {
		if i >= len(f.chains) {
			break
		}
		out[i] = f.chains[i].ProcessSample(angles[i]-f.offset[i]) + f.offset[i]
	}
	return out
}

// Reset clears filter state; the next frame primes it again.
func (f *Filter) Reset() {
	for _, c := range f.chains {
		c.Reset()
	}
	f.primed = false
}

func (f *Filter) effectiveFPS(fps float64) int {
	if !(fps > 0) {
		fps = defaultFPS
	}
	return max(int(math.Round(fps)), int(math.Ceil(minFPSPerCutoff*f.cutoff)))
}
