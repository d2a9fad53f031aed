package vu

// Sweep is the arc a needle travelled during one frame.
type Sweep struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// Trail remembers the previous frame's angle per channel so the renderer can
// draw a motion-blur wedge between it and the current angle.
type Trail struct {
	prev []float64
}

// NewTrail creates a trail with every channel resting at rest.
func NewTrail(channels int, rest float64) *Trail {
	prev := make([]float64, channels)
	for i := range prev {
		prev[i] = rest
	}
	return &Trail{prev: prev}
}

// Advance returns this frame's sweeps and records angles as the previous
// frame. Call it once per rendered frame. Extra angles beyond the trail's
// channel count are ignored.
func (t *Trail) Advance(angles []float64) []Sweep {
	sweeps := make([]Sweep, len(t.prev))
	for i := range t.prev {
		to := t.prev[i]
		if i < len(angles) {
			to = angles[i]
		}
		sweeps[i] = Sweep{From: t.prev[i], To: to}
		t.prev[i] = to
	}
	return sweeps
}

// Previous returns a copy of the last recorded angles.
func (t *Trail) Previous() []float64 {
	out := make([]float64, len(t.prev))
	copy(out, t.prev)
	return out
}
