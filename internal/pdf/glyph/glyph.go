// Package glyph holds the positioned-glyph model shared by the layout and table engines,
// and the Source contract that PDF readers implement to supply it.
package glyph

import (
	"fmt"
	"math"
)

// Glyph is one rendered character with its bounding box on a page.
// Coordinates are in rendering units with the origin at the top-left corner
// of the page and Y growing downward.
type Glyph struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Text   string  `json:"text"`
	Page   int     `json:"page"`
}

// Right returns the horizontal end of the glyph.
func (g Glyph) Right() float64 {
	return g.X + g.Width
}

// Bottom returns the vertical end of the glyph.
func (g Glyph) Bottom() float64 {
	return g.Y + g.Height
}

// Finite reports whether every coordinate of the glyph is a finite number.
func (g Glyph) Finite() bool {
	for _, v := range [...]float64{g.X, g.Y, g.Width, g.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (g Glyph) String() string {
	return fmt.Sprintf("%q@(%.2f,%.2f %.2fx%.2f)", g.Text, g.X, g.Y, g.Width, g.Height)
}

// Page is the drained content of one document page.
type Page struct {
	Index  int
	Width  float64
	Height float64
	// Flows are the logical glyph streams of the page in source order.
	Flows [][]Glyph
}

// Glyphs returns every glyph of the page, flows concatenated in order.
func (p Page) Glyphs() []Glyph {
	n := 0
	for _, flow := range p.Flows {
		n += len(flow)
	}
	out := make([]Glyph, 0, n)
	for _, flow := range p.Flows {
		out = append(out, flow...)
	}
	return out
}

// Source supplies pages of positioned glyphs.
// Page indices are zero-based.
type Source interface {
	PageCount() int
	Page(index int) (Page, error)
	Close() error
}
