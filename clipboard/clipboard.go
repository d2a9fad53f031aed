// Package clipboard writes the system clipboard through the application's
// clipboard manager.
package clipboard

import (
	"errors"

	"github.com/wailsapp/wails/v3/pkg/application"
)

// ErrUnavailable is returned when the clipboard cannot be accessed.
var ErrUnavailable = errors.New("clipboard: unavailable")

// Board is the subset of the application clipboard this package uses.
type Board interface {
	SetText(text string) bool
}

// Of returns the clipboard of app, or nil when app is not running.
func Of(app *application.App) Board {
	if app == nil || app.Clipboard == nil {
		return nil
	}
	return app.Clipboard
}

// SetText replaces the clipboard contents with text.
func SetText(b Board, text string) error {
	if b == nil || !b.SetText(text) {
		return ErrUnavailable
	}
	return nil
}
