// Package dial loads the meter's vector background and rasterizes it with
// needles for still snapshots.
package dial

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"

	"go.aimuz.me/vumeter/vu"
)

//go:embed dial.svg
var defaultSVG []byte

// ErrInvalidDial is returned when the background has no usable view box.
var ErrInvalidDial = errors.New("dial: invalid svg")

// Needle geometry as fractions of the view box.
const (
	pivotX       = 0.5
	pivotY       = 0.9
	needleLength = 0.75 // of the view box height
	needleWidth  = 0.012
	markLength   = 0.06
)

// needleColors cycles per channel.
var needleColors = []color.Color{
	colornames.Black,
	colornames.Darkred,
	colornames.Navy,
}

// Geometry tells a renderer where to put the needles, in view box units.
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	PivotX float64 `json:"pivotX"`
	PivotY float64 `json:"pivotY"`
	Length float64 `json:"length"`
	Stroke float64 `json:"stroke"`
}

// Dial is a parsed background.
type Dial struct {
	source []byte
	icon   *oksvg.SvgIcon
}

// Load reads the SVG at path, or the built-in dial when path is empty.
func Load(path string) (*Dial, error) {
	data := defaultSVG
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dial: %w", err)
		}
	}
	return Parse(data)
}

// Parse parses an SVG document. Unsupported elements are ignored; malformed
// XML or a missing view box is an error.
func Parse(data []byte) (*Dial, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse dial: %w", err)
	}
	if !(icon.ViewBox.W > 0) || !(icon.ViewBox.H > 0) {
		return nil, fmt.Errorf("%w: missing view box", ErrInvalidDial)
	}
	return &Dial{source: data, icon: icon}, nil
}

// SVG returns the document as loaded.
func (d *Dial) SVG() string {
	return string(d.source)
}

// Geometry returns the needle layout in view box units.
func (d *Dial) Geometry() Geometry {
	return d.geometry(d.icon.ViewBox.W, d.icon.ViewBox.H)
}

func (d *Dial) geometry(w, h float64) Geometry {
	return Geometry{
		Width:  w,
		Height: h,
		PivotX: w * pivotX,
		PivotY: h * pivotY,
		Length: h * needleLength,
		Stroke: max(w*needleWidth, 1),
	}
}

// Tip returns the needle end for angle, measured clockwise from vertical.
func (g Geometry) Tip(angle, length float64) (x, y float64) {
	return g.PivotX + length*math.Sin(angle), g.PivotY - length*math.Cos(angle)
}

// Render draws the background, the placed marks and one needle per angle
// into a w×h image.
func (d *Dial) Render(w, h int, angles []float64, marks []vu.PlacedMark) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidDial, w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colornames.White), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	d.icon.SetTarget(0, 0, float64(w), float64(h))
	d.icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	g := d.geometry(float64(w), float64(h))
	filler := rasterx.NewFiller(w, h, scanner)

	for _, m := range marks {
		outer := g.Length
		inner := outer * (1 - markLength)
		if m.Style == vu.MarkBig {
			inner = outer * (1 - 2*markLength)
		}
		quad(filler, g, m.Angle, inner, outer, g.Stroke/2)
		filler.SetColor(markColor(m.Style))
		filler.Draw()
		filler.Clear()
	}

	for ch, a := range angles {
		if math.IsNaN(a) {
			continue
		}
		quad(filler, g, a, 0, g.Length, g.Stroke)
		filler.SetColor(needleColors[ch%len(needleColors)])
		filler.Draw()
		filler.Clear()
	}

	rasterx.AddCircle(g.PivotX, g.PivotY, g.Stroke*2, filler)
	filler.SetColor(colornames.Black)
	filler.Draw()
	return img, nil
}

// quad adds a bar of the given width along angle between radii r0 and r1.
func quad(f *rasterx.Filler, g Geometry, angle, r0, r1, width float64) {
	nx, ny := math.Cos(angle)*width/2, math.Sin(angle)*width/2
	x0, y0 := g.Tip(angle, r0)
	x1, y1 := g.Tip(angle, r1)
	f.Start(rasterx.ToFixedP(x0-nx, y0-ny))
	f.Line(rasterx.ToFixedP(x1-nx, y1-ny))
	f.Line(rasterx.ToFixedP(x1+nx, y1+ny))
	f.Line(rasterx.ToFixedP(x0+nx, y0+ny))
	f.Stop(true)
}

func markColor(style vu.MarkStyle) color.Color {
	if style == vu.MarkUnderWarn {
		return colornames.Firebrick
	}
	return colornames.Dimgray
}
