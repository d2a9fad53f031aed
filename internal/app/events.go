// Package app provides the core application service for Wails bindings.
package app

import (
	"go.aimuz.me/vumeter/dial"
	"go.aimuz.me/vumeter/vu"
)

// Event names for frontend communication.
const (
	EventFrame        = "vu-frame"
	EventPreamp       = "vu-preamp"
	EventCaptureError = "vu-capture-error"
)

// ChannelFrame is one needle's state for a rendered frame.
type ChannelFrame struct {
	Angle    float64 `json:"angle"`
	Previous float64 `json:"previous"` // angle at the previous frame, for the motion trail
	Overload float64 `json:"overload"` // lamp brightness in [0, 1]
}

// FrameEvent is emitted once per frame.
type FrameEvent struct {
	Session  string         `json:"session"`
	Seq      uint64         `json:"seq"`
	Channels []ChannelFrame `json:"channels"`
}

// CaptureError is emitted when the capture feed ends with an error.
type CaptureError struct {
	Session string `json:"session"`
	Error   string `json:"error"`
}

// DialInfo describes the background for the frontend.
type DialInfo struct {
	SVG      string        `json:"svg"`
	Geometry dial.Geometry `json:"geometry"`
}

// ScaleInfo describes the needle mapping for the frontend.
type ScaleInfo struct {
	Channels     int             `json:"channels"`
	RangeDegrees float64         `json:"rangeDegrees"`
	Marks        []vu.PlacedMark `json:"marks"`
}

// Status summarizes the running meter.
type Status struct {
	Version    string  `json:"version"`
	Session    string  `json:"session"`
	Capturing  bool    `json:"capturing"`
	Blocks     uint64  `json:"blocks"`
	ReadErrors uint64  `json:"readErrors"`
	FPS        float64 `json:"fps"`
	PreampDB   float64 `json:"preampDb"`
}
