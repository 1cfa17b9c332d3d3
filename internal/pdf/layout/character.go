package layout

import (
	"math"
	"unicode/utf8"

	"github.com/a3tai/traprange/internal/pdf/glyph"
)

// character is a glyph classified against the glyph written before it.
type character struct {
	value               rune
	column              int
	partOfPreviousWord  bool
	beginningOfNewLine  bool
	closeToPreviousWord bool
}

// classify computes the placement flags of g. prev is the glyph processed just
// before g; firstOnLine is set for the first glyph written to a line.
func classify(g, prev glyph.Glyph, firstOnLine bool) character {
	gap := horizontalGap(prev, g)

	c := character{
		value:              firstRune(g.Text),
		column:             cellColumn(g.X),
		partOfPreviousWord: prev.Text != " " && gap <= 1,
		beginningOfNewLine: true,
	}
	if !firstOnLine {
		c.beginningOfNewLine = math.Round(baseline(g)) < math.Round(baseline(prev))
		c.closeToPreviousWord = gap > 1 && gap <= CellWidth
	}
	return c
}

// cellColumn maps a horizontal position to its cell, or -1 when x is not finite.
func cellColumn(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return -1
	}
	return int(math.Floor(x / CellWidth))
}

// horizontalGap is the distance between the end of a and the start of b,
// rounded to whole units.
func horizontalGap(a, b glyph.Glyph) float64 {
	return math.Abs(math.Round(b.X - a.Right()))
}

func baseline(g glyph.Glyph) float64 {
	return g.Bottom()
}

func firstRune(s string) rune {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return blank
	}
	return r
}
