package main

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"go.aimuz.me/vumeter/dial"
	"go.aimuz.me/vumeter/internal/cadence"
	"go.aimuz.me/vumeter/vu"
)

var (
	snapshotOut    string
	snapshotWait   time.Duration
	snapshotWidth  int
	snapshotHeight int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture briefly and render the dial to a PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotOut == "" {
			return fmt.Errorf("--out is required")
		}
		return runSnapshot()
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "output PNG file")
	snapshotCmd.Flags().DurationVar(&snapshotWait, "wait", 500*time.Millisecond, "capture time before rendering")
	snapshotCmd.Flags().IntVar(&snapshotWidth, "width", 800, "image width")
	snapshotCmd.Flags().IntVar(&snapshotHeight, "height", 480, "image height")
}

func runSnapshot() error {
	d, err := dial.Load(cfg.DialPath)
	if err != nil {
		return err
	}
	p, err := startProbe(cfg)
	if err != nil {
		return err
	}
	time.Sleep(snapshotWait)
	p.stop()

	f := p.presenter.Frame(cadence.Tick{Now: time.Now()})
	angles := make([]float64, len(f.Channels))
	for i, ch := range f.Channels {
		angles[i] = ch.Angle
	}
	img, err := d.Render(snapshotWidth, snapshotHeight, angles, vu.Place(cfg.Scale(), vu.DINScale()))
	if err != nil {
		return err
	}

	out, err := os.Create(snapshotOut)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	slog.Info("snapshot written", "path", snapshotOut, "reading", p.presenter.Last().String())
	return nil
}
