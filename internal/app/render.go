package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.aimuz.me/vumeter/internal/cadence"
)

// RenderAdapter runs the frame loop with proper synchronization.
type RenderAdapter struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start runs pacer on a new goroutine, stopping any existing loop first.
func (ra *RenderAdapter) Start(ctx context.Context, pacer *cadence.Pacer, frame func(cadence.Tick) bool) {
	ra.Stop()

	ra.mu.Lock()
	defer ra.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ra.cancel = cancel
	ra.done = done

	go func() {
		defer close(done)
		if err := pacer.Run(ctx, frame); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("render loop", "error", err)
		}
	}()
}

// Stop cancels the loop and waits for the current frame to finish.
func (ra *RenderAdapter) Stop() {
	ra.mu.Lock()
	cancel, done := ra.cancel, ra.done
	ra.cancel, ra.done = nil, nil
	ra.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a loop is active.
func (ra *RenderAdapter) Running() bool {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	return ra.cancel != nil
}
