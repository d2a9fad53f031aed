package vu

import (
	"time"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

const (
	overloadThreshold = 1.0
	overloadCharge    = 25.0 // per second
	overloadDischarge = 5.0  // per second
)

// Overload drives the per-channel clip lamp. The lamp lights quickly while
// the gained RMS is at or above full scale and fades slowly afterwards.
type Overload struct {
	level []float64
}

// NewOverload creates a dark lamp for each channel.
func NewOverload(channels int) *Overload {
	return &Overload{level: make([]float64, channels)}
}

// Update advances the lamps by dt and returns their levels in [0, 1].
func (o *Overload) Update(rms []float64, dt time.Duration) []float64 {
	secs := dt.Seconds()
	out := make([]float64, len(o.level))
	for i := range o.level {
		if i < len(rms) && rms[i] >= overloadThreshold {
			o.level[i] += secs * overloadCharge
		} else {
			o.level[i] -= secs * overloadDischarge
		}
		o.level[i] = core.Clamp(o.level[i], 0, 1)
		out[i] = o.level[i]
	}
	return out
}
