// Package pdftest generates small uncompressed PDF documents for tests.
//
// Every document uses a single Helvetica font whose glyphs all advance by
// half the font size, so glyph positions are easy to predict.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Page is one page of a generated document. An empty MediaBox makes the
// page inherit the box of the page tree.
type Page struct {
	MediaBox string
	Content  string
}

// Build writes a document with the given pages. treeBox, when set, is the
// MediaBox of the page tree root.
func Build(treeBox string, pages ...Page) []byte {
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	root := fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d", strings.Join(kids, " "), len(pages))
	if treeBox != "" {
		root += " /MediaBox " + treeBox
	}
	objects := []string{"<< /Type /Catalog /Pages 2 0 R >>", root + " >>"}

	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	font := "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding " +
		"/FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>"

	for i, p := range pages {
		page := fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Contents %d 0 R /Resources << /Font << /F1 %s >> >>", 4+2*i, font)
		if p.MediaBox != "" {
			page += " /MediaBox " + p.MediaBox
		}
		objects = append(objects, page+" >>",
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(p.Content), p.Content))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// Text shows s with its baseline origin at (x, y) in PDF user space.
func Text(x, y, size float64, s string) string {
	return fmt.Sprintf("BT\n/F1 %g Tf\n%g %g Td\n(%s) Tj\nET\n", size, x, y, s)
}

// Grid lays out rows of cell texts on a US-Letter page at 10pt: columns
// start every colWidth points from x 72, rows every 20 points down from y 700.
func Grid(colWidth float64, rows ...[]string) string {
	var sb strings.Builder
	for r, cells := range rows {
		for c, s := range cells {
			if s == "" {
				continue
			}
			sb.WriteString(Text(72+float64(c)*colWidth, 700-float64(r)*20, 10, s))
		}
	}
	return sb.String()
}

// WriteFile writes data to name inside dir and returns the path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
