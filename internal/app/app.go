// Package app provides the core application service for Wails bindings.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/wailsapp/wails/v3/pkg/application"

	"go.aimuz.me/vumeter/clipboard"
	"go.aimuz.me/vumeter/config"
	"go.aimuz.me/vumeter/dial"
	"go.aimuz.me/vumeter/hotkey"
	"go.aimuz.me/vumeter/internal/cadence"
	"go.aimuz.me/vumeter/internal/logging"
	"go.aimuz.me/vumeter/vu"
)

// Service provides application functionality bound to Wails.
// This struct focuses on orchestration; the meter itself lives in
// sub-components.
type Service struct {
	cfg    *config.Config
	dial   *dial.Dial
	marks  []vu.PlacedMark
	hotkey *hotkey.Manager

	// UI references - set via Init
	app     *application.App
	window  application.Window
	publish func(name string, data any)
	board   clipboard.Board

	buf       *vu.RollingBuffer
	presenter *Presenter
	audio     AudioAdapter
	render    RenderAdapter
	session   atomic.Value // string

	shuttingDown atomic.Bool

	// Version info (set by caller)
	version string
}

// New creates a Service from a validated config and a loaded dial.
// Call Init() after the Wails app is created, then Start().
func New(version string, cfg *config.Config, d *dial.Dial) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	buf, err := vu.NewRollingBuffer(cfg.Capacity(), cfg.Audio.Channels)
	if err != nil {
		return nil, fmt.Errorf("create buffer: %w", err)
	}
	scale := cfg.Scale()
	s := &Service{
		cfg:     cfg,
		dial:    d,
		marks:   vu.Place(scale, vu.DINScale()),
		buf:     buf,
		version: version,
		presenter: NewPresenter(buf, scale, cfg.Meter.PreampDB,
			cfg.Meter.MotionCutoffHz, cfg.Meter.FrameRate),
	}
	s.session.Store("")
	return s, nil
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init wires the service to the app and window.
// Must be called after Wails application is created.
func (s *Service) Init(app *application.App, window application.Window) {
	s.app = app
	s.window = window
	if app != nil {
		s.publish = func(name string, data any) { app.Event.Emit(name, data) }
	}
	s.board = clipboard.Of(app)

	s.setupHotkey()
}

// Start opens the audio input and begins emitting frames.
func (s *Service) Start() error {
	session, err := s.audio.Start(s.cfg.Capture(), s.buf.Append, func(session string, err error) {
		s.emit(EventCaptureError, CaptureError{Session: session, Error: err.Error()})
	})
	if err != nil {
		return err
	}
	s.session.Store(session)

	pacer := cadence.New(s.cfg.FrameInterval())
	s.render.Start(context.Background(), pacer, s.frame)
	return nil
}

func (s *Service) frame(t cadence.Tick) bool {
	if s.shuttingDown.Load() {
		return false
	}
	f := s.presenter.Frame(t)
	f.Session = s.session.Load().(string)
	s.emit(EventFrame, f)
	return true
}

// Shutdown stops rendering and capture. Safe to call more than once.
func (s *Service) Shutdown() {
	if s.shuttingDown.Swap(true) {
		return
	}
	if s.hotkey != nil {
		s.hotkey.Stop()
	}
	s.render.Stop()
	s.audio.Stop()
	slog.Info("meter stopped", logging.KeySession, s.session.Load())
}

func (s *Service) setupHotkey() {
	s.hotkey = hotkey.NewManager(
		hotkey.Binding{
			Name:   "toggle-window",
			Keys:   []string{"ctrl", "shift", "v"},
			Action: s.ToggleWindowVisibility,
		},
		hotkey.Binding{
			Name:   "preamp-up",
			Keys:   []string{"ctrl", "shift", "x"},
			Action: func() { s.AdjustPreamp(1) },
		},
		hotkey.Binding{
			Name:   "preamp-down",
			Keys:   []string{"ctrl", "shift", "z"},
			Action: func() { s.AdjustPreamp(-1) },
		},
	)

	if err := s.hotkey.Start(); err != nil {
		slog.Error("start hotkey", "error", err)
	}
}

// emit is a safe wrapper around app.Event.Emit
func (s *Service) emit(name string, data any) {
	if s.publish != nil {
		s.publish(name, data)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Meter
// ─────────────────────────────────────────────────────────────────────────────

// GetDial returns the background SVG and needle geometry.
func (s *Service) GetDial() DialInfo {
	return DialInfo{SVG: s.dial.SVG(), Geometry: s.dial.Geometry()}
}

// GetScale returns the needle range and the placed dial marks.
func (s *Service) GetScale() ScaleInfo {
	return ScaleInfo{
		Channels:     s.cfg.Audio.Channels,
		RangeDegrees: s.cfg.Meter.RangeDegrees,
		Marks:        s.marks,
	}
}

// GetPreamp returns the preamp in dB.
func (s *Service) GetPreamp() float64 {
	return s.presenter.Preamp()
}

// AdjustPreamp moves the preamp by steps of 6 dB and returns the new value.
func (s *Service) AdjustPreamp(steps int) float64 {
	db := s.presenter.AdjustPreamp(steps)
	slog.Info("preamp adjusted", "db", db)
	s.emit(EventPreamp, db)
	return db
}

// GetStatus returns capture counters and the measured frame rate.
func (s *Service) GetStatus() Status {
	stats, capturing := s.audio.Stats()
	return Status{
		Version:    s.version,
		Session:    s.audio.Session(),
		Capturing:  capturing,
		Blocks:     stats.Blocks,
		ReadErrors: stats.ReadErrors,
		FPS:        s.presenter.FPS(),
		PreampDB:   s.presenter.Preamp(),
	}
}

// CopyReading copies the current dB reading to the clipboard and returns it.
func (s *Service) CopyReading() (string, error) {
	text := s.presenter.Last().String()
	if err := clipboard.SetText(s.board, text); err != nil {
		return "", fmt.Errorf("copy reading: %w", err)
	}
	return text, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Window
// ─────────────────────────────────────────────────────────────────────────────

// ToggleWindowVisibility hides a visible window and shows a hidden one.
func (s *Service) ToggleWindowVisibility() {
	if s.window == nil {
		return
	}
	if s.window.IsVisible() {
		s.window.Hide()
		return
	}
	s.window.Show()
	s.window.Focus()
}
