package layout

import (
	"math"
	"sort"

	"github.com/a3tai/traprange/internal/pdf/glyph"
)

// sameLineTolerance is the baseline distance under which two glyphs are
// ordered by X alone.
const sameLineTolerance = 0.1

// readingLess orders glyphs top to bottom, then left to right. Glyphs whose
// baselines are within tolerance, or whose vertical extents overlap a
// baseline, are considered to be on the same line.
func readingLess(a, b glyph.Glyph) bool {
	aBottom, bBottom := baseline(a), baseline(b)
	aTop, bTop := a.Y, b.Y

	if math.Abs(aBottom-bBottom) < sameLineTolerance ||
		(bBottom >= aTop && bBottom <= aBottom) ||
		(aBottom >= bTop && aBottom <= bBottom) {
		return a.X < b.X
	}
	return aBottom < bBottom
}

// sortReadingOrder sorts flow in place. A flow with non-finite coordinates
// cannot be ordered; it is left untouched and the offending glyph returned.
func sortReadingOrder(flow []glyph.Glyph) (glyph.Glyph, bool) {
	for _, g := range flow {
		if !g.Finite() {
			return g, false
		}
	}
	sort.SliceStable(flow, func(i, j int) bool {
		return readingLess(flow[i], flow[j])
	})
	return glyph.Glyph{}, true
}
