// Package traprange merges one-dimensional glyph extents into disjoint bands.
//
// A trap range is a maximal run of overlapping or touching intervals. Clustering
// the vertical extents of a page's glyphs yields its row bands; clustering the
// horizontal extents yields column bands.
package traprange

import (
	"fmt"
	"sort"
)

// Interval is a closed range of integer coordinates.
type Interval struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// NewInterval returns the closed interval between a and b, in either order.
func NewInterval(a, b int) Interval {
	if a > b {
		a, b = b, a
	}
	return Interval{Lo: a, Hi: b}
}

// FromExtent truncates a floating-point extent [start, start+size] to integer coordinates.
func FromExtent(start, size float64) Interval {
	return NewInterval(int(start), int(start+size))
}

// Encloses reports whether other lies entirely within i.
func (i Interval) Encloses(other Interval) bool {
	return i.Lo <= other.Lo && other.Hi <= i.Hi
}

func (i Interval) String() string {
	return fmt.Sprintf("[%d..%d]", i.Lo, i.Hi)
}

// Range is a merged interval representing one row or column band.
type Range = Interval

// Builder accumulates intervals and clusters them on Build.
type Builder struct {
	intervals []Interval
}

// Add records an interval.
func (b *Builder) Add(i Interval) {
	b.intervals = append(b.intervals, i)
}

// Build returns the trap ranges of every interval added so far.
func (b *Builder) Build() []Range {
	return Cluster(b.intervals)
}

// Cluster merges intervals into ascending, pairwise disjoint, non-adjacent ranges.
// Every input interval is enclosed by exactly one output range. The input is not modified.
func Cluster(intervals []Interval) []Range {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].Lo != sorted[b].Lo {
			return sorted[a].Lo < sorted[b].Lo
		}
		return sorted[a].Hi < sorted[b].Hi
	})

	var out []Range
	acc := sorted[0]
	for _, next := range sorted[1:] {
		if next.Lo <= acc.Hi {
			if next.Hi > acc.Hi {
				acc.Hi = next.Hi
			}
			continue
		}
		out = append(out, acc)
		acc = next
	}
	return append(out, acc)
}
