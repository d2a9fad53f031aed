package cadence

import "time"

// Rate keeps a moving average of frame durations.
type Rate struct {
	window []time.Duration
	next   int
	filled int
	sum    time.Duration
}

// NewRate averages over the last n frames (at least one).
func NewRate(n int) *Rate {
	return &Rate{window: make([]time.Duration, max(n, 1))}
}

// Observe records one frame duration. Non-positive durations are ignored.
func (r *Rate) Observe(dt time.Duration) {
	if dt <= 0 {
		return
	}
	r.sum -= r.window[r.next]
	r.window[r.next] = dt
	r.sum += dt
	r.next = (r.next + 1) % len(r.window)
	if r.filled < len(r.window) {
		r.filled++
	}
}

// Average returns the mean frame duration, or zero before any observation.
func (r *Rate) Average() time.Duration {
	if r.filled == 0 {
		return 0
	}
	return r.sum / time.Duration(r.filled)
}

// FPS returns frames per second derived from Average, or zero.
func (r *Rate) FPS() float64 {
	avg := r.Average()
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}
