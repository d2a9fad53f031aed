package audiocapture

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// ErrDeviceLost is returned by Feed.Run when reads keep failing.
var ErrDeviceLost = errors.New("audiocapture: input device stopped delivering audio")

// maxConsecutiveFailures turns a run of failed reads into a fatal feed error.
const maxConsecutiveFailures = 50

// Stats counts feed activity.
type Stats struct {
	Blocks     uint64 `json:"blocks"`
	ReadErrors uint64 `json:"readErrors"`
}

// Feed is the producer loop: it reads blocks from a Source and hands them to
// a sink until stopped.
//
// Shutdown is best effort. Stop only raises a flag that is checked between
// blocks; a read already in flight is allowed to finish (or to never return)
// and nobody waits for it. The source is closed by the loop itself on exit.
type Feed struct {
	src   Source
	sink  func(block []float32) error
	block []float32

	stop       atomic.Bool
	blocks     atomic.Uint64
	readErrors atomic.Uint64
	done       chan struct{}
}

// NewFeed creates a feed reading blocks of blockSamples values. sink is
// called with a reused slice and must not retain it.
func NewFeed(src Source, blockSamples int, sink func(block []float32) error) *Feed {
	return &Feed{
		src:   src,
		sink:  sink,
		block: make([]float32, blockSamples),
		done:  make(chan struct{}),
	}
}

// Run reads until Stop is called, the source reports ErrClosed, the sink
// rejects a block, or too many consecutive reads fail. A single failed read
// is logged and skipped without touching the sink.
func (f *Feed) Run() error {
	defer close(f.done)
	defer func() {
		if err := f.src.Close(); err != nil {
			slog.Warn("close audio source", "error", err)
		}
	}()

	consecutive := 0
	for !f.stop.Load() {
		if err := f.src.ReadBlock(f.block); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			n := f.readErrors.Add(1)
			consecutive++
			if n == 1 || n%100 == 0 {
				slog.Warn("read audio block", "error", err, "failures", n)
			}
			if consecutive >= maxConsecutiveFailures {
				return fmt.Errorf("%w: %d reads failed in a row: %w", ErrDeviceLost, consecutive, err)
			}
			continue
		}
		consecutive = 0

		if err := f.sink(f.block); err != nil {
			return fmt.Errorf("deliver audio block: %w", err)
		}
		if n := f.blocks.Add(1); n%1000 == 0 {
			slog.Debug("captured audio blocks", "count", n)
		}
	}
	return nil
}

// Stop asks the loop to exit before its next read.
func (f *Feed) Stop() {
	f.stop.Store(true)
}

// Done is closed when Run returns.
func (f *Feed) Done() <-chan struct{} {
	return f.done
}

// Stats returns counters since the feed started.
func (f *Feed) Stats() Stats {
	return Stats{
		Blocks:     f.blocks.Load(),
		ReadErrors: f.readErrors.Load(),
	}
}
