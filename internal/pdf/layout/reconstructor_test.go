package layout

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/traprange/internal/pdf/errors"
	"github.com/a3tai/traprange/internal/pdf/glyph"
)

// at builds a glyph whose baseline sits at base.
func at(x, base, w, h float64, text string) glyph.Glyph {
	return glyph.Glyph{X: x, Y: base - h, Width: w, Height: h, Text: text}
}

// word lays out text one glyph per rune starting at x, each w units wide.
func word(x, base, w, h float64, text string) []glyph.Glyph {
	var out []glyph.Glyph
	for _, r := range text {
		out = append(out, at(x, base, w, h, string(r)))
		x += w
	}
	return out
}

func render(t *testing.T, p glyph.Page) []string {
	t.Helper()
	lines := NewReconstructor(zerolog.Nop()).Page(p)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(l.String(), " ")
	}
	return out
}

func TestPage_SingleLine(t *testing.T) {
	tests := []struct {
		name   string
		second float64
		want   string
	}{
		{name: "inter-word gap inside window", second: 24, want: "Hello World"},
		{name: "tight gap gets one blank", second: 22, want: "Hello World"},
		{name: "wide gap keeps position", second: 40, want: "Hello     World"},
		{name: "gap of one joins words", second: 21, want: "HelloWorld"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := append(word(0, 20, 4, 10, "Hello"), word(tt.second, 20, 4, 10, "World")...)
			got := render(t, glyph.Page{Width: 200, Flows: [][]glyph.Glyph{flow}})
			require.Len(t, got, 2)
			assert.Equal(t, "", got[0], "a page starts with a blank line")
			assert.Equal(t, tt.want, got[1])
		})
	}
}

func TestPage_LineWidth(t *testing.T) {
	lines := NewReconstructor(zerolog.Nop()).Page(glyph.Page{
		Width: 201.6,
		Flows: [][]glyph.Glyph{{at(0, 20, 4, 10, "x")}},
	})
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, 202/CellWidth, l.Len())
	}
}

func TestPage_SourceOrderIndependent(t *testing.T) {
	flow := word(0, 20, 4, 10, "abc")
	reversed := []glyph.Glyph{flow[2], flow[1], flow[0]}
	assert.Equal(t,
		render(t, glyph.Page{Width: 100, Flows: [][]glyph.Glyph{flow}}),
		render(t, glyph.Page{Width: 100, Flows: [][]glyph.Glyph{reversed}}))
}

func TestPage_NarrowAndWideGlyphsStayContiguous(t *testing.T) {
	narrow := word(0, 20, 2, 10, "iiii")
	wide := word(0, 40, 8, 10, "WWW")
	got := render(t, glyph.Page{Width: 200, Flows: [][]glyph.Glyph{append(narrow, wide...)}})
	require.Len(t, got, 3)
	assert.Equal(t, "iiii", got[1])
	assert.Equal(t, "WWW", got[2])
}

func TestPage_SpaceGlyph(t *testing.T) {
	flow := word(0, 20, 4, 10, "Hello World")
	got := render(t, glyph.Page{Width: 200, Flows: [][]glyph.Glyph{flow}})
	require.Len(t, got, 2)
	assert.Equal(t, "Hello World", got[1])
}

func TestPage_BlankLinesPreserved(t *testing.T) {
	tests := []struct {
		name   string
		second float64
		want   []string
	}{
		{name: "next line", second: 32, want: []string{"", "A", "B"}},
		{name: "one line skipped", second: 56, want: []string{"", "A", "", "B"}},
		{name: "two lines skipped", second: 68, want: []string{"", "A", "", "", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := []glyph.Glyph{at(0, 20, 4, 12, "A"), at(0, tt.second, 4, 12, "B")}
			assert.Equal(t, tt.want, render(t, glyph.Page{Width: 100, Flows: [][]glyph.Glyph{flow}}))
		})
	}
}

func TestPage_FlowsShareLineState(t *testing.T) {
	p := glyph.Page{Width: 100, Flows: [][]glyph.Glyph{
		{at(0, 20, 4, 12, "A")},
		{at(8, 20, 4, 12, "B")},
		{at(0, 32, 4, 12, "C")},
	}}
	// Each flow flushes its own line; a line break found before any glyph of a
	// flow is pending still emits a line.
	assert.Equal(t, []string{"", "A", "  B", "", "C"}, render(t, p))
}

func TestPage_NoGlyphs(t *testing.T) {
	assert.Empty(t, render(t, glyph.Page{Width: 100}))
	assert.Empty(t, render(t, glyph.Page{Width: 100, Flows: [][]glyph.Glyph{{}}}))
}

func TestPage_OutOfBoundsGlyphDropped(t *testing.T) {
	flow := []glyph.Glyph{at(0, 20, 4, 10, "a"), at(100, 20, 4, 10, "z"), at(-12, 20, 4, 10, "y")}
	got := render(t, glyph.Page{Width: 40, Flows: [][]glyph.Glyph{flow}})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[1])
}

func TestPage_TinyGlyphHeightClamped(t *testing.T) {
	var buf bytes.Buffer
	r := NewReconstructor(zerolog.New(&buf))

	flow := []glyph.Glyph{at(0, 20, 4, 10, "A"), at(0, 700, 4, 0.001, "B")}
	lines := r.Page(glyph.Page{Index: 2, Width: 612, Flows: [][]glyph.Glyph{flow}})

	// Leading blank, A, one blank per unit of the 680 gap but the last, B.
	require.Len(t, lines, 682)
	assert.Equal(t, "A", strings.TrimRight(lines[1].String(), " "))
	assert.Equal(t, "B", strings.TrimRight(lines[681].String(), " "))
	for _, l := range lines[2:681] {
		assert.Empty(t, strings.TrimSpace(l.String()))
	}
	assert.Contains(t, buf.String(), "clamped blank lines of page")
	assert.Contains(t, buf.String(), errors.ErrorTypeMalformedPage.String())
	assert.Contains(t, buf.String(), `"page":2`)
}

func TestPage_RegularSpacingNotClamped(t *testing.T) {
	var buf bytes.Buffer
	r := NewReconstructor(zerolog.New(&buf))

	flow := []glyph.Glyph{at(0, 20, 4, 1, "A"), at(0, 120, 4, 1, "B")}
	lines := r.Page(glyph.Page{Width: 100, Flows: [][]glyph.Glyph{flow}})

	assert.Len(t, lines, 1+1+98+1)
	assert.NotContains(t, buf.String(), errors.ErrorTypeMalformedPage.String())
}

func TestPage_LineCountBounded(t *testing.T) {
	var buf bytes.Buffer
	r := NewReconstructor(zerolog.New(&buf))

	flow := []glyph.Glyph{at(0, 0, 4, 1, "A"), at(0, 1e7, 4, 1, "B"), at(0, 2e7, 4, 1, "C")}
	lines := r.Page(glyph.Page{Width: 40, Flows: [][]glyph.Glyph{flow}})

	assert.Len(t, lines, lineBudget(10))
	assert.Equal(t, "A", strings.TrimRight(lines[1].String(), " "))
	assert.Contains(t, buf.String(), errors.ErrorTypeMalformedPage.String())
}

func TestPage_WidthClamped(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		cells int
	}{
		{name: "huge", width: 1e9, cells: MaxPageWidth / CellWidth},
		{name: "infinite", width: math.Inf(1), cells: MaxPageWidth / CellWidth},
		{name: "negative", width: -50, cells: 0},
		{name: "not a number", width: math.NaN(), cells: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			lines := NewReconstructor(zerolog.New(&buf)).Page(glyph.Page{
				Width: tt.width,
				Flows: [][]glyph.Glyph{{at(0, 20, 4, 10, "x")}},
			})
			require.Len(t, lines, 2)
			assert.Equal(t, tt.cells, lines[1].Len())
			assert.Contains(t, buf.String(), "clamped page width")
			assert.Contains(t, buf.String(), errors.ErrorTypeMalformedPage.String())
		})
	}
}

// Calibration of the quantization constants. A change to CellWidth,
// NewLineThreshold or the word-gap window must show up here.
func TestCalibration(t *testing.T) {
	assert.Equal(t, 4, CellWidth)
	assert.Equal(t, 5.5, NewLineThreshold)

	t.Run("cell width", func(t *testing.T) {
		tests := []struct {
			x    float64
			want string
		}{
			{x: -2, want: ""},
			{x: -0.1, want: ""},
			{x: 0, want: "x"},
			{x: 3.9, want: "x"},
			{x: 4, want: " x"},
			{x: 7.9, want: " x"},
			{x: 8, want: "  x"},
			{x: 39.9, want: "         x"},
			{x: 40, want: ""},
		}
		for _, tt := range tests {
			got := render(t, glyph.Page{Width: 40, Flows: [][]glyph.Glyph{{at(tt.x, 20, 4, 10, "x")}}})
			require.Len(t, got, 2)
			assert.Equal(t, tt.want, got[1], "x=%v", tt.x)
		}
	})

	t.Run("new line threshold", func(t *testing.T) {
		tests := []struct {
			base  float64
			lines []string
		}{
			{base: 25, lines: []string{"", "A         B"}},
			{base: 25.4, lines: []string{"", "A         B"}},
			{base: 25.6, lines: []string{"", "A", "          B"}},
			{base: 26, lines: []string{"", "A", "          B"}},
		}
		for _, tt := range tests {
			flow := []glyph.Glyph{at(0, 20, 4, 3, "A"), at(40, tt.base, 4, 3, "B")}
			assert.Equal(t, tt.lines, render(t, glyph.Page{Width: 100, Flows: [][]glyph.Glyph{flow}}), "base=%v", tt.base)
		}
	})

	t.Run("word gap window", func(t *testing.T) {
		prev := at(0, 20, 4, 10, "a")
		tests := []struct {
			x     float64
			part  bool
			close bool
		}{
			{x: 4, part: true},
			{x: 5, part: true},
			{x: 5.4, part: true},
			{x: 5.6, close: true},
			{x: 6, close: true},
			{x: 8, close: true},
			{x: 8.4, close: true},
			{x: 8.6},
			{x: 12},
		}
		for _, tt := range tests {
			c := classify(at(tt.x, 20, 4, 10, "b"), prev, false)
			assert.Equal(t, tt.part, c.partOfPreviousWord, "x=%v", tt.x)
			assert.Equal(t, tt.close, c.closeToPreviousWord, "x=%v", tt.x)
			assert.False(t, c.beginningOfNewLine, "x=%v", tt.x)
		}
	})
}

func TestClassify(t *testing.T) {
	prev := at(0, 20, 4, 10, "a")

	c := classify(at(4, 20, 4, 10, "béta"), prev, true)
	assert.Equal(t, 'b', c.value)
	assert.Equal(t, 1, c.column)
	assert.True(t, c.beginningOfNewLine)
	assert.False(t, c.closeToPreviousWord)

	c = classify(at(4, 20, 4, 10, "é"), at(0, 20, 4, 10, " "), false)
	assert.Equal(t, 'é', c.value)
	assert.False(t, c.partOfPreviousWord)

	c = classify(at(8, 10, 4, 10, "x"), prev, false)
	assert.True(t, c.beginningOfNewLine)

	c = classify(at(8, 20, 4, 10, ""), prev, false)
	assert.Equal(t, blank, c.value)

	assert.Equal(t, -1, classify(at(-2, 20, 4, 10, "n"), prev, true).column)
	assert.Equal(t, -1, classify(at(math.NaN(), 20, 4, 10, "n"), prev, true).column)
	assert.Equal(t, -1, classify(at(math.Inf(1), 20, 4, 10, "n"), prev, true).column)
}

func TestReadingLess(t *testing.T) {
	small := at(30, 20, 4, 6, "s")
	tall := at(10, 20.05, 4, 12, "t")
	assert.True(t, readingLess(tall, small), "same baseline orders by X")
	assert.False(t, readingLess(small, tall))

	sup := at(50, 17, 3, 4, "2")
	assert.True(t, readingLess(small, sup), "overlapping extents order by X")

	below := at(0, 40, 4, 6, "b")
	assert.True(t, readingLess(small, below))
	assert.False(t, readingLess(below, small))
}

func TestPage_LayoutAnomalyKeepsSourceOrder(t *testing.T) {
	var buf bytes.Buffer
	r := NewReconstructor(zerolog.New(&buf))

	flow := []glyph.Glyph{at(20, 20, 4, 10, "B"), at(0, 20, 4, 10, "A"), at(math.NaN(), 20, 4, 10, "C")}
	lines := r.Page(glyph.Page{Index: 3, Width: 100, Flows: [][]glyph.Glyph{flow}})

	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1].String(), "     BA"), "got %q", lines[1].String())
	assert.Contains(t, buf.String(), "keeping source order of glyphs")
	assert.Contains(t, buf.String(), errors.ErrorTypeLayoutAnomaly.String())
	assert.Contains(t, buf.String(), `"page":3`)
}

func TestPage_DoesNotReorderCallerFlows(t *testing.T) {
	flow := []glyph.Glyph{at(20, 20, 4, 10, "B"), at(0, 20, 4, 10, "A")}
	render(t, glyph.Page{Width: 100, Flows: [][]glyph.Glyph{flow}})
	assert.Equal(t, "B", flow[0].Text)
}

func TestPage_Deterministic(t *testing.T) {
	p := glyph.Page{Width: 300, Flows: [][]glyph.Glyph{
		append(word(10, 20, 5, 10, "Invoice"), word(120, 20, 5, 10, "2024")...),
		append(word(10, 50, 5, 10, "Total"), word(120, 50, 5, 10, "42.00")...),
	}}
	assert.Equal(t, render(t, p), render(t, p))
}

func TestDocument(t *testing.T) {
	page := func(text string) glyph.Page {
		return glyph.Page{Width: 100, Flows: [][]glyph.Glyph{{at(0, 20, 4, 10, text)}}}
	}
	src := glyph.NewMemorySource(page("a"), page("b"), page("c"))
	r := NewReconstructor(zerolog.Nop())

	all, err := r.Document(src, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[2].Index)
	assert.Equal(t, strings.Repeat(" ", 25)+"\n"+"c"+strings.Repeat(" ", 24)+"\n", all[2].String())

	some, err := r.Document(src, []int{2, 0, 9})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, 0, some[0].Index)
	assert.Equal(t, 2, some[1].Index)

	require.NoError(t, src.Close())
	_, err = r.Document(src, nil)
	require.Error(t, err)
	assert.True(t, errors.IsInputError(err))
}

func TestPageText_JSON(t *testing.T) {
	line := NewTextLine(12)
	line.write(character{value: 'x', column: 1})
	out, err := json.Marshal(PageText{Index: 2, Lines: []*TextLine{line, NewTextLine(8)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":2,"lines":[" x ","  "]}`, string(out))
}
