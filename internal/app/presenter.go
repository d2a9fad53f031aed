package app

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.aimuz.me/vumeter/ballistics"
	"go.aimuz.me/vumeter/internal/cadence"
	"go.aimuz.me/vumeter/vu"
)

const (
	// rateWindow is the number of frames averaged for the measured frame rate.
	rateWindow = 30
	// floorDB is reported for silence.
	floorDB = -120.0
)

// Reading is the most recent frame in numbers.
type Reading struct {
	At       time.Time `json:"at"`
	Angles   []float64 `json:"angles"`
	Decibels []float64 `json:"decibels"`
	Overload []float64 `json:"overload"`
}

// String formats the reading as "L -12.0 dB  R -11.5 dB".
func (r Reading) String() string {
	parts := make([]string, len(r.Decibels))
	for i, db := range r.Decibels {
		parts[i] = fmt.Sprintf("%s %.1f dB", channelName(i, len(r.Decibels)), db)
	}
	return strings.Join(parts, "  ")
}

func channelName(i, n int) string {
	if n == 2 {
		return [...]string{"L", "R"}[i]
	}
	return fmt.Sprintf("Ch%d", i+1)
}

// Presenter turns the rolling buffer into frames. Frame is called from a
// single render goroutine; the preamp and the last reading may be accessed
// from anywhere.
type Presenter struct {
	buf      *vu.RollingBuffer
	base     vu.Scale
	preamp   atomic.Uint64 // math.Float64bits of dB
	filter   *ballistics.Filter
	trail    *vu.Trail
	overload *vu.Overload
	rate     *cadence.Rate
	fps      atomic.Uint64 // math.Float64bits of rate.FPS()
	snap     []float32

	mu   sync.Mutex
	last Reading
}

// NewPresenter creates a presenter reading buf. motionCutoff <= 0 disables
// needle ballistics.
func NewPresenter(buf *vu.RollingBuffer, scale vu.Scale, preampDB, motionCutoff float64, fps int) *Presenter {
	p := &Presenter{
		buf:      buf,
		base:     scale,
		filter:   ballistics.New(motionCutoff, float64(fps), scale.Channels),
		trail:    vu.NewTrail(scale.Channels, -scale.Range),
		overload: vu.NewOverload(scale.Channels),
		rate:     cadence.NewRate(rateWindow),
	}
	p.SetPreamp(preampDB)
	return p
}

// Preamp returns the preamp in dB.
func (p *Presenter) Preamp() float64 {
	return math.Float64frombits(p.preamp.Load())
}

// SetPreamp sets the preamp, clamped to ±vu.MaxPreampDB, and returns the
// stored value.
func (p *Presenter) SetPreamp(db float64) float64 {
	db = vu.ClampPreampDB(db)
	p.preamp.Store(math.Float64bits(db))
	return db
}

// AdjustPreamp moves the preamp by steps of vu.PreampStepDB.
func (p *Presenter) AdjustPreamp(steps int) float64 {
	for {
		old := p.preamp.Load()
		db := vu.ClampPreampDB(math.Float64frombits(old) + float64(steps)*vu.PreampStepDB)
		if p.preamp.CompareAndSwap(old, math.Float64bits(db)) {
			return db
		}
	}
}

// Scale returns the mapping with the current preamp applied.
func (p *Presenter) Scale() vu.Scale {
	return p.base.WithPreamp(p.Preamp())
}

// FPS returns the measured frame rate.
func (p *Presenter) FPS() float64 {
	return math.Float64frombits(p.fps.Load())
}

// Last returns a copy of the most recent reading.
func (p *Presenter) Last() Reading {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Reading{
		At:       p.last.At,
		Angles:   append([]float64(nil), p.last.Angles...),
		Decibels: append([]float64(nil), p.last.Decibels...),
		Overload: append([]float64(nil), p.last.Overload...),
	}
}

// Frame computes one frame from the buffer as it is now.
func (p *Presenter) Frame(tick cadence.Tick) FrameEvent {
	p.snap = p.buf.SnapshotInto(p.snap)
	scale := p.Scale()
	angles := scale.Angles(p.snap)
	rms := scale.RMS(p.snap)

	p.rate.Observe(tick.DT)
	p.fps.Store(math.Float64bits(p.rate.FPS()))
	if p.filter.Enabled() && tick.Seq > 0 && tick.Seq%rateWindow == 0 {
		if p.filter.Retune(p.rate.FPS()) {
			slog.Debug("retuned needle filter", "fps", p.filter.FPS())
		}
	}
	angles = p.filter.Process(angles)
	sweeps := p.trail.Advance(angles)
	lamps := p.overload.Update(rms, tick.DT)

	frame := FrameEvent{
		Seq:      tick.Seq,
		Channels: make([]ChannelFrame, len(sweeps)),
	}
	dbs := make([]float64, len(rms))
	for i, sw := range sweeps {
		frame.Channels[i] = ChannelFrame{Angle: sw.To, Previous: sw.From, Overload: lamps[i]}
	}
	for i, r := range rms {
		dbs[i] = max(vu.Decibels(r), floorDB)
	}

	p.mu.Lock()
	p.last = Reading{At: tick.Now, Angles: angles, Decibels: dbs, Overload: lamps}
	p.mu.Unlock()
	return frame
}
