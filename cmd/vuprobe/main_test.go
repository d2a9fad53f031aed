package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"go.aimuz.me/vumeter/config"
	"go.aimuz.me/vumeter/internal/app"
)

func TestBar(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		want  string
	}{
		{"left stop", -1, "----------"},
		{"center", 0, "#####-----"},
		{"right stop", 1, "##########"},
		{"beyond", 3, "##########"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bar(tt.angle, 1, 10); got != tt.want {
				t.Errorf("bar(%v) = %q, want %q", tt.angle, got, tt.want)
			}
		})
	}
	if got := bar(0, 1, 0); got != "" {
		t.Errorf("zero width bar = %q", got)
	}
}

func TestMeterLine(t *testing.T) {
	f := app.FrameEvent{Channels: []app.ChannelFrame{
		{Angle: 0},
		{Angle: 1, Overload: 1},
	}}
	r := app.Reading{Decibels: []float64{-20, 0}}
	got := meterLine(f, r, 1, 4)
	want := "[##--] -20.0 dB  [####]!  0.0 dB"
	if got != want {
		t.Errorf("meterLine = %q, want %q", got, want)
	}
}

func TestOverlay(t *testing.T) {
	v := viper.New()
	v.Set("log.level", "debug")
	v.Set("meter.preamp_db", 12.0)
	v.Set("audio.sample_rate", 48000)

	c := config.Default()
	overlay(v, c)
	if c.Log.Level != "debug" || c.Meter.PreampDB != 12 || c.Audio.SampleRate != 48000 {
		t.Errorf("overlay = %+v", c)
	}
	if c.Log.Format != "text" {
		t.Errorf("unset key changed: format = %q", c.Log.Format)
	}
}

func TestOverlayEnv(t *testing.T) {
	t.Setenv("VUMETER_METER_MOTION_CUTOFF_HZ", "4")

	v := viper.New()
	v.SetEnvPrefix("VUMETER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c := config.Default()
	overlay(v, c)
	if c.Meter.MotionCutoffHz != 4 {
		t.Errorf("MotionCutoffHz = %v, want 4", c.Meter.MotionCutoffHz)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vumeter", "config.json")

	got, err := writeDefaultConfig(path, false)
	if err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
	if _, err := writeDefaultConfig(path, false); err == nil {
		t.Error("expected error for existing file")
	}
	if _, err := writeDefaultConfig(path, true); err != nil {
		t.Errorf("force overwrite: %v", err)
	}

	c, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if *c != *config.Default() {
		t.Errorf("loaded %+v, want defaults", c)
	}
}
