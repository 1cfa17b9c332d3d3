package wrapper

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/a3tai/traprange/internal/pdf/glyph"
)

// defaultGlyphHeight is used when a glyph reports no font size.
const defaultGlyphHeight = 12.0

// Document is a glyph.Source backed by ledongthuc/pdf.
// Each page is read into memory in full when requested.
type Document struct {
	reader    *pdf.Reader
	closed    bool
	decrypted bool
}

// openLedongthuc parses data, trying password when the document is encrypted.
func openLedongthuc(data []byte, password string) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &WrapperError{Library: LibraryLedongthuc, Op: "open", Err: fmt.Errorf("malformed document: %v", rec)}
		}
	}()

	var pw func() string
	if password != "" {
		tried := false
		pw = func() string {
			if tried {
				return ""
			}
			tried = true
			return password
		}
	}

	r, err = pdf.NewReaderEncrypted(bytes.NewReader(data), int64(len(data)), pw)
	if err != nil {
		return nil, &WrapperError{Library: LibraryLedongthuc, Op: "open", Err: err}
	}
	return r, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	if d.closed {
		return 0
	}
	return d.reader.NumPage()
}

// Page returns the glyphs of the page at a zero-based index as a single flow.
func (d *Document) Page(index int) (page glyph.Page, err error) {
	if d.closed {
		return glyph.Page{}, &WrapperError{Library: LibraryLedongthuc, Op: "page", Err: ErrDocumentClosed}
	}
	if index < 0 || index >= d.reader.NumPage() {
		return glyph.Page{}, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "page",
			Err:     fmt.Errorf("%w %d (document has %d pages)", ErrInvalidPage, index+1, d.reader.NumPage()),
		}
	}

	p := d.reader.Page(index + 1)
	if p.V.IsNull() {
		return glyph.Page{}, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "page",
			Err:     fmt.Errorf("%w %d: page object not found", ErrInvalidPage, index+1),
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = &WrapperError{
				Library: LibraryLedongthuc,
				Op:      "content",
				Err:     fmt.Errorf("malformed content stream on page %d: %v", index+1, rec),
			}
		}
	}()

	box := mediaBox(p)
	content := p.Content()
	glyphs := make([]glyph.Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, toGlyph(t, box, index))
	}

	return glyph.Page{
		Index:  index,
		Width:  box.Width(),
		Height: box.Height(),
		Flows:  [][]glyph.Glyph{glyphs},
	}, nil
}

// Decrypted reports whether the document had to be decrypted before parsing.
func (d *Document) Decrypted() bool {
	return d.decrypted
}

// Close releases the document. The data is held in memory, so Close never fails.
func (d *Document) Close() error {
	d.closed = true
	return nil
}

// toGlyph converts a shown glyph from PDF user space (origin at the bottom-left
// corner of the box) to page space with the origin at the top-left corner.
func toGlyph(t pdf.Text, box Rectangle, page int) glyph.Glyph {
	height := t.FontSize
	if height <= 0 {
		height = defaultGlyphHeight
	}
	return glyph.Glyph{
		X:      t.X - box.LLX,
		Y:      box.URY - t.Y - height,
		Width:  t.W,
		Height: height,
		Text:   norm.NFC.String(t.S),
		Page:   page,
	}
}

// mediaBox returns the page's MediaBox, inherited through the page tree,
// or LetterBox when none is usable.
func mediaBox(p pdf.Page) (box Rectangle) {
	defer func() {
		if rec := recover(); rec != nil {
			box = LetterBox
		}
	}()

	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		if mb := v.Key("MediaBox"); !mb.IsNull() {
			if r, ok := parseRectangle(mb); ok {
				return r
			}
		}
	}
	return LetterBox
}

func parseRectangle(v pdf.Value) (Rectangle, bool) {
	if v.Kind() != pdf.Array || v.Len() != 4 {
		return Rectangle{}, false
	}
	var c [4]float64
	for i := range c {
		e := v.Index(i)
		if e.Kind() != pdf.Integer && e.Kind() != pdf.Real {
			return Rectangle{}, false
		}
		c[i] = e.Float64()
	}
	r := Rectangle{LLX: c[0], LLY: c[1], URX: c[2], URY: c[3]}
	if r.LLX > r.URX {
		r.LLX, r.URX = r.URX, r.LLX
	}
	if r.LLY > r.URY {
		r.LLY, r.URY = r.URY, r.LLY
	}
	if r.Width() == 0 || r.Height() == 0 {
		return Rectangle{}, false
	}
	return r, true
}
