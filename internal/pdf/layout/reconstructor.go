// Package layout renders a page's positioned glyphs as fixed-width text,
// keeping each glyph roughly at the column its position maps to.
package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/a3tai/traprange/internal/pdf/errors"
	"github.com/a3tai/traprange/internal/pdf/glyph"
)

// Quantization constants of the text layout. Output on real documents
// depends on these exact values.
const (
	// CellWidth is the number of rendering units covered by one character cell.
	CellWidth = 4
	// NewLineThreshold is the baseline distance above which a glyph starts a new physical line.
	NewLineThreshold = 5.5
	// MaxPageWidth is the largest page dimension a PDF may declare.
	MaxPageWidth = 14400
)

// Per-page output bounds.
const (
	maxPageLines = 1 << 16
	maxPageCells = 1 << 23
)

// PageText is the reconstructed text of one page.
type PageText struct {
	Index int         `json:"index" yaml:"index"`
	Lines []*TextLine `json:"lines" yaml:"lines"`
}

// String joins the lines, each terminated by a newline.
func (p PageText) String() string {
	var sb strings.Builder
	for _, l := range p.Lines {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Reconstructor converts glyph flows into text lines.
type Reconstructor struct {
	logger zerolog.Logger
}

// NewReconstructor creates a Reconstructor logging to logger.
func NewReconstructor(logger zerolog.Logger) *Reconstructor {
	return &Reconstructor{logger: logger}
}

// Page reconstructs the lines of p. Blank lines are kept.
func (r *Reconstructor) Page(p glyph.Page) []*TextLine {
	width, ok := pageWidth(p.Width)
	if !ok {
		err := errors.NewPDFErrorWithContext(errors.ErrorTypeMalformedPage,
			"page width out of range", fmt.Sprintf("width %g", p.Width)).WithPage(p.Index)
		r.logger.Warn().Err(err).Int("page", p.Index).Int("width", width).Msg("clamped page width")
	}
	st := &pageState{width: width, maxLines: lineBudget(width / CellWidth)}

	for i, flow := range p.Flows {
		flow = append([]glyph.Glyph(nil), flow...)
		if bad, ok := sortReadingOrder(flow); !ok {
			err := errors.NewPDFErrorWithContext(errors.ErrorTypeLayoutAnomaly,
				"glyph positions cannot be ordered",
				fmt.Sprintf("flow %d, glyph %s", i, bad)).WithPage(p.Index)
			r.logger.Warn().Err(err).Int("page", p.Index).Int("flow", i).
				Msg("keeping source order of glyphs")
		}
		st.flow(flow)
	}

	if st.clamped > 0 || st.truncated {
		err := errors.NewPDFErrorWithContext(errors.ErrorTypeMalformedPage,
			"line spacing exceeds page bounds",
			fmt.Sprintf("%d gaps clamped, truncated at %d lines: %t", st.clamped, st.maxLines, st.truncated)).WithPage(p.Index)
		r.logger.Warn().Err(err).Int("page", p.Index).Int("lines", len(st.lines)).Msg("clamped blank lines of page")
	}

	r.logger.Debug().Int("page", p.Index).Int("lines", len(st.lines)).Msg("reconstructed page layout")
	return st.lines
}

// Document reconstructs the given pages of src in ascending order.
// An empty pages list selects every page; indices outside the document are ignored.
func (r *Reconstructor) Document(src glyph.Source, pages []int) ([]PageText, error) {
	var out []PageText
	for _, idx := range selectPages(src.PageCount(), pages) {
		p, err := src.Page(idx)
		if err != nil {
			return nil, errors.WrapError(errors.ErrorTypeInput,
				fmt.Sprintf("failed to read page %d", idx), err).WithPage(idx)
		}
		out = append(out, PageText{Index: idx, Lines: r.Page(p)})
	}
	return out, nil
}

func selectPages(count int, pages []int) []int {
	var out []int
	if len(pages) == 0 {
		for i := 0; i < count; i++ {
			out = append(out, i)
		}
		return out
	}
	want := make(map[int]bool, len(pages))
	for _, p := range pages {
		want[p] = true
	}
	for i := 0; i < count; i++ {
		if want[i] {
			out = append(out, i)
		}
	}
	return out
}

// pageWidth rounds w to whole units. It reports false when w had to be
// clamped into [0, MaxPageWidth].
func pageWidth(w float64) (int, bool) {
	switch {
	case math.IsNaN(w) || w < 0:
		return 0, false
	case w > MaxPageWidth:
		return MaxPageWidth, false
	}
	return int(math.Round(w)), true
}

// lineBudget is the number of lines of the given cell count a page may hold.
func lineBudget(cells int) int {
	return min(maxPageLines, maxPageCells/max(1, cells))
}

// pageState carries the previous glyph across the flows of one page.
type pageState struct {
	width    int
	maxLines int
	lines    []*TextLine
	prev     *glyph.Glyph

	clamped   int
	truncated bool
}

// addLine appends a blank line. It returns nil once the page is full.
func (s *pageState) addLine() *TextLine {
	if len(s.lines) >= s.maxLines {
		s.truncated = true
		return nil
	}
	l := NewTextLine(s.width)
	s.lines = append(s.lines, l)
	return l
}

func (s *pageState) flow(glyphs []glyph.Glyph) {
	var pending []glyph.Glyph
	for _, g := range glyphs {
		if n := s.newLines(g); n != 0 {
			s.writeLine(pending)
			pending = pending[:0]
			for i := 0; i < n-1 && !s.truncated; i++ {
				s.addLine()
			}
		}
		pending = append(pending, g)
		s.setPrev(g)
	}
	if len(pending) > 0 {
		s.writeLine(pending)
	}
}

// newLines returns how many lines separate g from the previous glyph.
func (s *pageState) newLines(g glyph.Glyph) int {
	if s.prev == nil {
		return 1
	}
	dy := math.Round(baseline(g)) - math.Round(baseline(*s.prev))
	if !(dy > NewLineThreshold) {
		return 0
	}
	if !(g.Height > 0) {
		return 1
	}
	n := math.Floor(math.Floor(dy)/g.Height) - 1
	if n < 1 {
		return 1
	}
	// A gap never spans more lines than units.
	if n > dy {
		n = dy
		s.clamped++
	}
	if n > maxPageLines {
		n = maxPageLines
		s.clamped++
	}
	return int(n)
}

// writeLine appends one line holding glyphs, or a blank line when there are none.
func (s *pageState) writeLine(glyphs []glyph.Glyph) {
	line := s.addLine()
	for i, g := range glyphs {
		if line != nil {
			line.write(classify(g, *s.prev, i == 0))
		}
		s.setPrev(g)
	}
}

func (s *pageState) setPrev(g glyph.Glyph) {
	s.prev = &g
}
