package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"go.aimuz.me/vumeter/audiocapture"
	"go.aimuz.me/vumeter/config"
	"go.aimuz.me/vumeter/internal/app"
	"go.aimuz.me/vumeter/vu"
)

// probe is a running capture feeding a presenter.
type probe struct {
	presenter *app.Presenter
	feed      *audiocapture.Feed
	errc      chan error
}

func startProbe(c *config.Config) (*probe, error) {
	buf, err := vu.NewRollingBuffer(c.Capacity(), c.Audio.Channels)
	if err != nil {
		return nil, err
	}

	var src audiocapture.Source
	if viper.GetBool("synthetic") {
		s := audiocapture.NewSynthetic(c.Capture(), 0.5, 440)
		s.Realtime = true
		src = s
	} else if src, err = audiocapture.Open(c.Capture()); err != nil {
		if errors.Is(err, audiocapture.ErrUnsupported) {
			return nil, fmt.Errorf("%w (try --synthetic)", err)
		}
		return nil, err
	}

	p := &probe{
		presenter: app.NewPresenter(buf, c.Scale(), c.Meter.PreampDB, c.Meter.MotionCutoffHz, c.Meter.FrameRate),
		feed:      audiocapture.NewFeed(src, c.BlockSamples(), buf.Append),
		errc:      make(chan error, 1),
	}
	go func() {
		p.errc <- p.feed.Run()
	}()
	slog.Debug("probe started", "capacity", c.Capacity(), "block", c.BlockSamples())
	return p, nil
}

// stop asks the feed to exit. The last read may still be in flight.
func (p *probe) stop() {
	p.feed.Stop()
	stats := p.feed.Stats()
	slog.Debug("probe stopped", "blocks", stats.Blocks, "readErrors", stats.ReadErrors)
}
