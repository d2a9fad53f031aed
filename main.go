package main

import (
	"embed"
	"log/slog"
	"os"
	"sync"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"go.aimuz.me/vumeter/config"
	"go.aimuz.me/vumeter/dial"
	"go.aimuz.me/vumeter/internal/app"
	"go.aimuz.me/vumeter/internal/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("load config", err)
	}
	logging.Init(cfg.Log.Format, cfg.Log.Level, nil)
	slog.Info("starting app", "version", version, "commit", commit, "date", date)

	if err := cfg.Validate(); err != nil {
		fatal("validate config", err)
	}
	d, err := dial.Load(cfg.DialPath)
	if err != nil {
		fatal("load dial", err)
	}
	meter, err := app.New(version, cfg, d)
	if err != nil {
		fatal("create meter", err)
	}

	wails := application.New(application.Options{
		Name:        "VU Meter",
		Description: "Stereo loudness meter",
		Services: []application.Service{
			application.NewService(meter),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: true,
		},
		OnShutdown: meter.Shutdown,
	})

	geo := d.Geometry()
	mainWindow := wails.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:  "VU Meter",
		Width:  int(geo.Width) * 2,
		Height: int(geo.Height) * 2,
		URL:    "/",
		Mac: application.MacWindow{
			TitleBar:                application.MacTitleBarHiddenInsetUnified,
			InvisibleTitleBarHeight: 38,
		},
	})

	// Closing the window ends the process.
	var quit sync.Once
	mainWindow.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		meter.Shutdown()
		quit.Do(func() { go wails.Quit() })
	})

	meter.Init(wails, mainWindow)
	setupTray(wails, meter, d)

	if err := meter.Start(); err != nil {
		fatal("start meter", err)
	}

	if err := wails.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
}
