package main

import (
	"bytes"
	"image/png"
	"log/slog"

	"github.com/wailsapp/wails/v3/pkg/application"

	"go.aimuz.me/vumeter/dial"
	"go.aimuz.me/vumeter/internal/app"
)

const trayIconSize = 44

func setupTray(wails *application.App, meter *app.Service, d *dial.Dial) {
	systemTray := wails.SystemTray.New()
	if icon := trayIcon(d); icon != nil {
		systemTray.SetIcon(icon)
	}

	trayMenu := wails.NewMenu()
	trayMenu.Add("Show / Hide").
		SetAccelerator("CmdOrCtrl+Shift+V").
		OnClick(func(ctx *application.Context) {
			meter.ToggleWindowVisibility()
		})
	trayMenu.Add("Preamp +6 dB").OnClick(func(ctx *application.Context) {
		meter.AdjustPreamp(1)
	})
	trayMenu.Add("Preamp -6 dB").OnClick(func(ctx *application.Context) {
		meter.AdjustPreamp(-1)
	})
	trayMenu.Add("Copy Reading").OnClick(func(ctx *application.Context) {
		if _, err := meter.CopyReading(); err != nil {
			slog.Error("copy reading from tray", "error", err)
		}
	})

	trayMenu.AddSeparator()
	trayMenu.Add("Quit").
		SetAccelerator("CmdOrCtrl+Q").
		OnClick(func(ctx *application.Context) {
			meter.Shutdown()
			wails.Quit()
		})

	systemTray.SetMenu(trayMenu)
}

// trayIcon renders the dial with a centered needle as PNG.
func trayIcon(d *dial.Dial) []byte {
	img, err := d.Render(trayIconSize, trayIconSize, []float64{0}, nil)
	if err != nil {
		slog.Warn("render tray icon", "error", err)
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		slog.Warn("encode tray icon", "error", err)
		return nil
	}
	return buf.Bytes()
}
