package audiocapture

import (
	"errors"
	"slices"
	"testing"
	"time"

	"go.aimuz.me/vumeter/vu"
)

// scriptedSource replays a fixed sequence of reads, then reports ErrClosed.
type scriptedSource struct {
	reads  []scriptedRead
	closes int
}

type scriptedRead struct {
	value float32
	err   error
}

func (s *scriptedSource) ReadBlock(buf []float32) error {
	if len(s.reads) == 0 {
		return ErrClosed
	}
	r := s.reads[0]
	s.reads = s.reads[1:]
	if r.err != nil {
		return r.err
	}
	for i := range buf {
		buf[i] = r.value
	}
	return nil
}

func (s *scriptedSource) Close() error {
	s.closes++
	return nil
}

func TestFeedSkipsFailedReads(t *testing.T) {
	errGlitch := errors.New("input overflowed")
	src := &scriptedSource{reads: []scriptedRead{
		{value: 1},
		{err: errGlitch},
		{value: 2},
		{err: errGlitch},
		{value: 3},
	}}

	rb, err := vu.NewRollingBuffer(8, 2)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}

	feed := NewFeed(src, 4, rb.Append)
	if err := feed.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []float32{2, 2, 2, 2, 3, 3, 3, 3}
	if got := rb.Snapshot(); !slices.Equal(got, want) {
		t.Fatalf("buffer = %v, want %v", got, want)
	}
	if st := feed.Stats(); st.Blocks != 3 || st.ReadErrors != 2 {
		t.Errorf("Stats() = %+v, want 3 blocks and 2 read errors", st)
	}
	if src.closes != 1 {
		t.Errorf("source closed %d times, want 1", src.closes)
	}
	select {
	case <-feed.Done():
	default:
		t.Error("Done() not closed after Run returned")
	}
}

func TestFeedDeviceLost(t *testing.T) {
	reads := make([]scriptedRead, maxConsecutiveFailures)
	for i := range reads {
		reads[i].err = errors.New("device unplugged")
	}
	src := &scriptedSource{reads: reads}

	feed := NewFeed(src, 2, func([]float32) error {
		t.Fatal("sink called without a successful read")
		return nil
	})
	if err := feed.Run(); !errors.Is(err, ErrDeviceLost) {
		t.Fatalf("Run error = %v, want ErrDeviceLost", err)
	}
}

func TestFeedSinkRejection(t *testing.T) {
	src := &scriptedSource{reads: []scriptedRead{{value: 1}}}
	rb, err := vu.NewRollingBuffer(4, 2)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}

	// Three samples cannot be split into stereo frames.
	feed := NewFeed(src, 3, rb.Append)
	if err := feed.Run(); !errors.Is(err, vu.ErrMisaligned) {
		t.Fatalf("Run error = %v, want vu.ErrMisaligned", err)
	}
	if rb.Len() != 0 {
		t.Errorf("buffer holds %d samples after rejected block", rb.Len())
	}
}

func TestFeedStop(t *testing.T) {
	cfg := Config{SampleRate: 8000, Channels: 2, BlockFrames: 64}
	src := NewSynthetic(cfg, 0.5, 440)

	rb, err := vu.NewRollingBuffer(cfg.BlockSamples()*4, cfg.Channels)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}

	feed := NewFeed(src, cfg.BlockSamples(), rb.Append)
	errc := make(chan error, 1)
	go func() { errc <- feed.Run() }()

	deadline := time.After(5 * time.Second)
	for feed.Stats().Blocks < 10 {
		select {
		case <-deadline:
			t.Fatal("feed produced no blocks")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	feed.Stop()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("feed did not stop")
	}

	if rb.Len() != rb.Cap() {
		t.Errorf("buffer Len() = %d, want full %d", rb.Len(), rb.Cap())
	}
	if err := src.ReadBlock(make([]float32, cfg.BlockSamples())); !errors.Is(err, ErrClosed) {
		t.Errorf("source not closed after stop: %v", err)
	}
}
