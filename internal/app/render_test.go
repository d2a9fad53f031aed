package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.aimuz.me/vumeter/internal/cadence"
)

func TestRenderAdapter(t *testing.T) {
	var ra RenderAdapter
	var frames atomic.Int64

	ra.Start(context.Background(), cadence.New(time.Millisecond), func(cadence.Tick) bool {
		frames.Add(1)
		return true
	})
	if !ra.Running() {
		t.Fatal("Running() = false after Start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for frames.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	ra.Stop()
	if ra.Running() {
		t.Error("Running() = true after Stop")
	}

	n := frames.Load()
	if n < 5 {
		t.Fatalf("rendered %d frames", n)
	}
	time.Sleep(10 * time.Millisecond)
	if frames.Load() != n {
		t.Error("frames rendered after Stop returned")
	}
	ra.Stop()
}
