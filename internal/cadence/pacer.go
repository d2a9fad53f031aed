// Package cadence runs a function at a fixed frame rate, sleeping away the
// remainder of each frame. It knows nothing about what is drawn.
package cadence

import (
	"context"
	"time"
)

// DefaultInterval targets 60 frames per second.
const DefaultInterval = time.Second / 60

// Tick describes one frame.
type Tick struct {
	Seq uint64
	Now time.Time
	DT  time.Duration // time since the previous tick; zero for the first
}

// Clock abstracts time so pacing can be tested without real sleeps.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Pacer calls a frame function once per Interval.
type Pacer struct {
	Interval time.Duration
	Clock    Clock
}

// New returns a pacer on the wall clock. A non-positive interval selects
// DefaultInterval.
func New(interval time.Duration) *Pacer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Pacer{Interval: interval, Clock: realClock{}}
}

// Run calls frame until it returns false or ctx is done. After each frame it
// sleeps for whatever is left of the interval; an overrunning frame is
// followed immediately by the next one. Run returns ctx.Err() on
// cancellation and nil when frame stops the loop.
func (p *Pacer) Run(ctx context.Context, frame func(Tick) bool) error {
	clock := p.Clock
	if clock == nil {
		clock = realClock{}
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	var (
		seq  uint64
		last time.Time
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := clock.Now()
		tick := Tick{Seq: seq, Now: start}
		if seq > 0 {
			tick.DT = start.Sub(last)
		}
		last = start
		seq++

		if !frame(tick) {
			return nil
		}

		if remain := interval - clock.Now().Sub(start); remain > 0 {
			if err := clock.Sleep(ctx, remain); err != nil {
				return err
			}
		}
	}
}
