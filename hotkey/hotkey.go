// Package hotkey registers global keyboard shortcuts.
package hotkey

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
)

// ErrRunning is returned by Start when the listener is already active.
var ErrRunning = errors.New("hotkey: already running")

// Binding runs Action when every key in Keys is held.
// Keys use gohook names: "ctrl", "shift", "alt", "cmd" and single characters.
type Binding struct {
	Name   string
	Keys   []string
	Action func()
}

// String formats the chord as "Ctrl+Shift+V".
func (b Binding) String() string {
	parts := make([]string, len(b.Keys))
	for i, k := range b.Keys {
		if len(k) == 1 {
			parts[i] = strings.ToUpper(k)
		} else {
			parts[i] = strings.ToUpper(k[:1]) + k[1:]
		}
	}
	return strings.Join(parts, "+")
}

// backend is the global hook. gohook keeps process-wide state.
type backend interface {
	Register(keys []string, cb func())
	Run()
	End()
}

type gohookBackend struct{}

func (gohookBackend) Register(keys []string, cb func()) {
	hook.Register(hook.KeyDown, keys, func(hook.Event) { cb() })
}

func (gohookBackend) Run() {
	<-hook.Process(hook.Start())
}

func (gohookBackend) End() {
	hook.End()
}

// Manager owns the global hook listener.
type Manager struct {
	mu       sync.Mutex
	bindings []Binding
	backend  backend
	running  bool
	done     chan struct{}
}

// NewManager creates a manager for bindings. Nothing is registered until Start.
func NewManager(bindings ...Binding) *Manager {
	return &Manager{bindings: bindings, backend: gohookBackend{}}
}

// Start registers the bindings and listens in the background.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrRunning
	}

	for _, b := range m.bindings {
		action := b.Action
		name := b.Name
		m.backend.Register(b.Keys, func() {
			slog.Debug("hotkey pressed", "name", name)
			// Keep the listener responsive.
			go action()
		})
		slog.Info("hotkey registered", "name", name, "keys", b.String())
	}

	m.running = true
	m.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		m.backend.Run()
	}(m.done)
	return nil
}

// Stop ends the listener and waits for it to return.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	done := m.done
	m.mu.Unlock()

	m.backend.End()
	<-done
}
