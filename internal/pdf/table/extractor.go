package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/a3tai/traprange/internal/pdf/errors"
	"github.com/a3tai/traprange/internal/pdf/glyph"
	"github.com/a3tai/traprange/internal/pdf/traprange"
)

// Extractor assembles tables from a glyph source.
// It holds no state between calls to Extract.
type Extractor struct {
	opts   Options
	logger zerolog.Logger
}

// NewExtractor creates an Extractor for the given options.
func NewExtractor(opts Options, logger zerolog.Logger) *Extractor {
	return &Extractor{opts: opts, logger: logger}
}

// pageContent is a page after row inference and line exclusion.
type pageContent struct {
	index  int
	rows   []traprange.Range
	glyphs []glyph.Glyph
}

// Extract returns one Table per eligible page of src in ascending page order.
// Row bands are inferred per page; column bands are inferred once from the
// glyphs of every eligible page. The caller owns src and closes it.
func (e *Extractor) Extract(src glyph.Source) ([]Table, error) {
	var pages []pageContent
	for idx := 0; idx < src.PageCount(); idx++ {
		if !e.opts.Eligible(idx) {
			continue
		}
		page, err := src.Page(idx)
		if err != nil {
			return nil, errors.WrapError(errors.ErrorTypeInput,
				fmt.Sprintf("failed to read page %d", idx), err).WithPage(idx)
		}
		pages = append(pages, e.rowContent(idx, e.usableGlyphs(page)))
	}

	columns := columnRanges(pages)

	tables := make([]Table, 0, len(pages))
	for _, pc := range pages {
		t := buildTable(pc, columns)
		e.logger.Debug().
			Int("page", pc.index).
			Int("rows", len(t.Rows)).
			Int("columns", len(columns)).
			Msg("found table")
		tables = append(tables, t)
	}
	return tables, nil
}

// usableGlyphs drops glyphs whose coordinates cannot be banded.
func (e *Extractor) usableGlyphs(page glyph.Page) []glyph.Glyph {
	all := page.Glyphs()
	out := all[:0]
	dropped := 0
	for _, g := range all {
		if !g.Finite() {
			dropped++
			continue
		}
		out = append(out, g)
	}
	if dropped > 0 {
		err := errors.NewPDFErrorWithContext(errors.ErrorTypeMalformedPage,
			"glyphs with non-finite coordinates", fmt.Sprintf("%d dropped", dropped)).WithPage(page.Index)
		e.logger.Warn().Err(err).Int("page", page.Index).Msg("dropping unusable glyphs")
	}
	return out
}

// rowContent infers the row bands of a page, removes excepted rows and keeps
// the glyphs enclosed by a surviving band.
func (e *Extractor) rowContent(page int, glyphs []glyph.Glyph) pageContent {
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].Y < glyphs[j].Y })

	var b traprange.Builder
	for _, g := range glyphs {
		b.Add(verticalExtent(g))
	}
	all := b.Build()

	rows := make([]traprange.Range, 0, len(all))
	for i, r := range all {
		if !e.opts.LineExcepted(page, i, len(all)) {
			rows = append(rows, r)
		}
	}

	return pageContent{index: page, rows: rows, glyphs: filterByRows(rows, glyphs)}
}

// filterByRows keeps the glyphs enclosed by one of rows. Both inputs are
// sorted by their lower vertical bound.
func filterByRows(rows []traprange.Range, glyphs []glyph.Glyph) []glyph.Glyph {
	var out []glyph.Glyph
	gi, ri := 0, 0
	for gi < len(glyphs) && ri < len(rows) {
		ext := verticalExtent(glyphs[gi])
		switch {
		case rows[ri].Encloses(ext):
			out = append(out, glyphs[gi])
			gi++
		case rows[ri].Hi < ext.Lo:
			ri++
		default:
			gi++
		}
	}
	return out
}

func columnRanges(pages []pageContent) []traprange.Range {
	var b traprange.Builder
	for _, pc := range pages {
		for _, g := range pc.glyphs {
			b.Add(horizontalExtent(g))
		}
	}
	return b.Build()
}

func buildTable(pc pageContent, columns []traprange.Range) Table {
	t := Table{PageIndex: pc.index, ColumnCount: len(columns), Rows: make([]Row, 0, len(pc.rows))}
	gi := 0
	for ri, band := range pc.rows {
		start := gi
		for gi < len(pc.glyphs) && band.Encloses(verticalExtent(pc.glyphs[gi])) {
			gi++
		}
		t.Rows = append(t.Rows, buildRow(ri, pc.glyphs[start:gi], columns))
	}
	return t
}

// buildRow partitions the glyphs of one row left to right into column cells.
// The row always has one cell per column band.
func buildRow(index int, glyphs []glyph.Glyph, columns []traprange.Range) Row {
	sorted := append([]glyph.Glyph(nil), glyphs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	row := Row{Index: index, Cells: make([]Cell, 0, len(columns))}
	var text strings.Builder
	col := 0
	emit := func() {
		row.Cells = append(row.Cells, Cell{Index: col, Text: text.String()})
		text.Reset()
		col++
	}

	for _, g := range sorted {
		ext := horizontalExtent(g)
		for col < len(columns) && !columns[col].Encloses(ext) {
			emit()
		}
		if col == len(columns) {
			break
		}
		text.WriteString(g.Text)
	}
	for col < len(columns) {
		emit()
	}
	return row
}

func verticalExtent(g glyph.Glyph) traprange.Interval {
	return traprange.FromExtent(g.Y, g.Height)
}

func horizontalExtent(g glyph.Glyph) traprange.Interval {
	return traprange.FromExtent(g.X, g.Width)
}
