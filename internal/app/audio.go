package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"go.aimuz.me/vumeter/audiocapture"
	"go.aimuz.me/vumeter/internal/logging"
)

// ErrCaptureRunning is returned when capture is started twice.
var ErrCaptureRunning = errors.New("audio capture already running")

// AudioAdapter manages the capture feed with proper synchronization.
type AudioAdapter struct {
	mu      sync.Mutex
	feed    *audiocapture.Feed
	session string

	// open defaults to audiocapture.Open.
	open func(audiocapture.Config) (audiocapture.Source, error)
}

// Start opens the input and appends every block to sink on a new goroutine.
// onExit is called if the feed ends with an error. It returns the new
// session id.
func (aa *AudioAdapter) Start(cfg audiocapture.Config, sink func([]float32) error, onExit func(session string, err error)) (string, error) {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	if aa.feed != nil {
		return "", ErrCaptureRunning
	}

	open := aa.open
	if open == nil {
		open = audiocapture.Open
	}
	cfg = cfg.WithDefaults()
	src, err := open(cfg)
	if err != nil {
		return "", fmt.Errorf("open audio capture: %w", err)
	}

	session := uuid.NewString()
	feed := audiocapture.NewFeed(src, cfg.BlockSamples(), sink)
	go func() {
		if err := feed.Run(); err != nil {
			slog.Error("audio capture ended", logging.KeySession, session, logging.KeyError, err)
			if onExit != nil {
				onExit(session, err)
			}
		}
	}()

	aa.feed = feed
	aa.session = session
	slog.Info("audio capture started",
		logging.KeySession, session,
		"sampleRate", cfg.SampleRate,
		"channels", cfg.Channels,
		"blockFrames", cfg.BlockFrames,
	)
	return session, nil
}

// Stop asks the feed to exit. It does not wait for an in-flight read.
func (aa *AudioAdapter) Stop() {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	if aa.feed == nil {
		return
	}
	aa.feed.Stop()
	slog.Info("audio capture stopped", logging.KeySession, aa.session, "blocks", aa.feed.Stats().Blocks)
	aa.feed = nil
	aa.session = ""
}

// Session returns the current session id, or "" when stopped.
func (aa *AudioAdapter) Session() string {
	aa.mu.Lock()
	defer aa.mu.Unlock()
	return aa.session
}

// Stats returns the feed counters, or zero when stopped.
func (aa *AudioAdapter) Stats() (audiocapture.Stats, bool) {
	aa.mu.Lock()
	defer aa.mu.Unlock()
	if aa.feed == nil {
		return audiocapture.Stats{}, false
	}
	return aa.feed.Stats(), true
}
