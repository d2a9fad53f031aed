package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"go.aimuz.me/vumeter/internal/app"
	"go.aimuz.me/vumeter/internal/cadence"
)

var (
	meterDuration time.Duration
	meterWidth    int
)

var meterCmd = &cobra.Command{
	Use:   "meter",
	Short: "Print live needle positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		if meterDuration > 0 {
			ctx, cancel = context.WithTimeout(ctx, meterDuration)
			defer cancel()
		}
		return runMeter(ctx, cmd.OutOrStdout())
	},
}

func init() {
	meterCmd.Flags().DurationVar(&meterDuration, "duration", 0, "stop after this long (0 runs until interrupted)")
	meterCmd.Flags().IntVar(&meterWidth, "width", 40, "bar width in characters")
}

func runMeter(ctx context.Context, w io.Writer) error {
	p, err := startProbe(cfg)
	if err != nil {
		return err
	}
	defer p.stop()

	rangeRad := cfg.Scale().Range
	pacer := cadence.New(cfg.FrameInterval())
	var feedErr error
	err = pacer.Run(ctx, func(t cadence.Tick) bool {
		select {
		case feedErr = <-p.errc:
			return false
		default:
		}
		f := p.presenter.Frame(t)
		fmt.Fprintf(w, "\r%s", meterLine(f, p.presenter.Last(), rangeRad, meterWidth))
		return true
	})
	fmt.Fprintln(w)
	if feedErr != nil {
		return feedErr
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func meterLine(f app.FrameEvent, r app.Reading, rangeRad float64, width int) string {
	parts := make([]string, len(f.Channels))
	for i, ch := range f.Channels {
		db := "   --"
		if i < len(r.Decibels) {
			db = fmt.Sprintf("%5.1f", r.Decibels[i])
		}
		lamp := " "
		if ch.Overload > 0.5 {
			lamp = "!"
		}
		parts[i] = fmt.Sprintf("[%s]%s%s dB", bar(ch.Angle, rangeRad, width), lamp, db)
	}
	return strings.Join(parts, "  ")
}

// bar draws angle in [-rangeRad, rangeRad] as a filled bar of width cells.
func bar(angle, rangeRad float64, width int) string {
	if width <= 0 {
		return ""
	}
	frac := (angle + rangeRad) / (2 * rangeRad)
	n := int(frac*float64(width) + 0.5)
	n = min(max(n, 0), width)
	return strings.Repeat("#", n) + strings.Repeat("-", width-n)
}
