package vu

import (
	"math"
	"strconv"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

// MarkStyle selects how a dial mark is drawn.
type MarkStyle string

const (
	MarkBig       MarkStyle = "big"
	MarkMedium    MarkStyle = "medium"
	MarkInter     MarkStyle = "inter"
	MarkUnder     MarkStyle = "under"
	MarkUnderWarn MarkStyle = "under-warn"
)

// Mark is a dial graduation at a linear RMS amplitude.
type Mark struct {
	Position float64   `json:"position"`
	Label    string    `json:"label,omitempty"`
	Style    MarkStyle `json:"style"`
}

// PlacedMark is a Mark resolved to a needle angle.
type PlacedMark struct {
	Mark
	Angle float64 `json:"angle"`
}

// DINScale returns the graduations of a DIN-style PPM dial: labelled dB
// marks, unlabelled intermediate marks, and percent marks under the arc.
func DINScale() []Mark {
	var marks []Mark
	for _, db := range []int{-50, -40, -30, -20, -10, -5, 0, 5} {
		label := strconv.Itoa(db)
		if db > 0 {
			label = "+" + label
		}
		marks = append(marks, Mark{Position: core.DBToLinear(float64(db)), Label: label, Style: MarkBig})
	}
	marks = append(marks, Mark{Position: core.DBToLinear(-9), Label: "-9", Style: MarkMedium})
	for _, db := range []int{-45, -35, -25, -15, -4, -3, -2, -1, 1, 2, 3, 4} {
		marks = append(marks, Mark{Position: core.DBToLinear(float64(db)), Style: MarkInter})
	}
	for _, pct := range []int{1, 2, 3, 5, 10, 20, 30, 50, 100, 200} {
		style := MarkUnder
		if pct == 50 || pct == 100 {
			style = MarkUnderWarn
		}
		marks = append(marks, Mark{Position: float64(pct) / 100, Label: strconv.Itoa(pct), Style: style})
	}
	return marks
}

// Place resolves marks to angles on s, ignoring its preamp gain, and drops
// any mark the needle cannot reach.
func Place(s Scale, marks []Mark) []PlacedMark {
	placed := make([]PlacedMark, 0, len(marks))
	for _, m := range marks {
		if !(m.Position > 0) {
			continue
		}
		raw := s.Range * (1 + math.Log10(m.Position))
		if raw < -s.Range-angleEpsilon || raw > s.Range+angleEpsilon {
			continue
		}
		placed = append(placed, PlacedMark{Mark: m, Angle: core.Clamp(raw, -s.Range, s.Range)})
	}
	return placed
}

const angleEpsilon = 1e-9
