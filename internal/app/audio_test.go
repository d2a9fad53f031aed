package app

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.aimuz.me/vumeter/audiocapture"
)

func syntheticOpener(amplitude float64) func(audiocapture.Config) (audiocapture.Source, error) {
	return func(cfg audiocapture.Config) (audiocapture.Source, error) {
		src := audiocapture.NewSynthetic(cfg, amplitude, 440)
		src.Realtime = true
		return src, nil
	}
}

func TestAudioAdapterStartStop(t *testing.T) {
	aa := AudioAdapter{open: syntheticOpener(0.5)}

	var blocks atomic.Int64
	session, err := aa.Start(audiocapture.Config{}, func(b []float32) error {
		if len(b) != audiocapture.DefaultConfig().BlockSamples() {
			t.Errorf("block of %d samples", len(b))
		}
		blocks.Add(1)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if session == "" || aa.Session() != session {
		t.Fatalf("session = %q, Session() = %q", session, aa.Session())
	}
	if _, err := aa.Start(audiocapture.Config{}, nil, nil); !errors.Is(err, ErrCaptureRunning) {
		t.Fatalf("second Start = %v, want ErrCaptureRunning", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for blocks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if blocks.Load() < 3 {
		t.Fatalf("received %d blocks", blocks.Load())
	}
	if stats, ok := aa.Stats(); !ok || stats.Blocks == 0 {
		t.Errorf("Stats() = %+v, %v", stats, ok)
	}

	aa.Stop()
	aa.Stop()
	if aa.Session() != "" {
		t.Error("session should be cleared after Stop")
	}
	if _, ok := aa.Stats(); ok {
		t.Error("Stats() should report stopped")
	}
}

func TestAudioAdapterOpenError(t *testing.T) {
	aa := AudioAdapter{open: func(audiocapture.Config) (audiocapture.Source, error) {
		return nil, audiocapture.ErrUnsupported
	}}
	if _, err := aa.Start(audiocapture.Config{}, nil, nil); !errors.Is(err, audiocapture.ErrUnsupported) {
		t.Fatalf("Start = %v, want ErrUnsupported", err)
	}
	if aa.Session() != "" {
		t.Error("failed start should not set a session")
	}
}

func TestAudioAdapterOnExit(t *testing.T) {
	sinkErr := errors.New("full")
	aa := AudioAdapter{open: syntheticOpener(0.1)}

	exited := make(chan error, 1)
	_, err := aa.Start(audiocapture.Config{}, func([]float32) error { return sinkErr },
		func(_ string, err error) { exited <- err })
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer aa.Stop()

	select {
	case err := <-exited:
		if !errors.Is(err, sinkErr) {
			t.Errorf("exit error = %v, want %v", err, sinkErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("onExit not called")
	}
}
