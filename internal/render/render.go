// Package render writes extracted tables and reconstructed page layouts.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"

	"github.com/a3tai/traprange/internal/pdf/errors"
	"github.com/a3tai/traprange/internal/pdf/layout"
	"github.com/a3tai/traprange/internal/pdf/table"
)

// Format selects how tables are written.
type Format string

const (
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Formats lists every supported format.
var Formats = []Format{FormatHTML, FormatJSON, FormatYAML, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat resolves a format name. Matching is case-insensitive and
// "md" and "yml" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", errors.NewPDFErrorWithContext(errors.ErrorTypeConfiguration,
		fmt.Sprintf("unsupported output format %q", name), "supported: html, json, yaml, csv, markdown, text")
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// Tables writes tables to w in format f. Human-readable formats print
// one-based page numbers; JSON and YAML keep the zero-based PageIndex.
func Tables(w io.Writer, f Format, tables []table.Table) error {
	switch f {
	case FormatHTML:
		return writeHTML(w, tables)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tables)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tables); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, tables)
	case FormatMarkdown:
		return writeMarkdown(w, tables)
	case FormatText:
		return writeText(w, tables)
	}
	return fmt.Errorf("unsupported output format %q", f)
}

// Layout writes each page's lines, one per output line, with a form feed
// between pages.
func Layout(w io.Writer, pages []layout.PageText) error {
	for i, p := range pages {
		if i > 0 {
			if _, err := io.WriteString(w, "\f"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, p.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeHTML(w io.Writer, tables []table.Table) error {
	for _, t := range tables {
		if _, err := fmt.Fprintf(w, "Page: %d\n", t.PageIndex+1); err != nil {
			return err
		}
		if err := html.Render(w, tableNode(t)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func tableNode(t table.Table) *html.Node {
	tbl := element(atom.Table)
	for _, row := range t.Rows {
		tr := element(atom.Tr)
		for _, cell := range row.Cells {
			td := element(atom.Td)
			if cell.Text != "" {
				td.AppendChild(&html.Node{Type: html.TextNode, Data: cell.Text})
			}
			tr.AppendChild(td)
		}
		tbl.AppendChild(tr)
	}
	return tbl
}

func writeCSV(w io.Writer, tables []table.Table) error {
	cw := csv.NewWriter(w)
	for _, t := range tables {
		page := strconv.Itoa(t.PageIndex + 1)
		for _, row := range t.Grid() {
			if err := cw.Write(append([]string{page}, row...)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func writeMarkdown(w io.Writer, tables []table.Table) error {
	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## Page %d\n\n", t.PageIndex+1)
		grid := t.Grid()
		if len(grid) == 0 || t.ColumnCount == 0 {
			b.WriteString("_empty table_\n")
			continue
		}
		markdownRow(&b, grid[0])
		b.WriteString("|")
		for range t.ColumnCount {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range grid[1:] {
			markdownRow(&b, row)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func markdownRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(markdownEscaper.Replace(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// writeText pads every column to its widest cell.
func writeText(w io.Writer, tables []table.Table) error {
	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Page: %d\n", t.PageIndex+1)
		grid := t.Grid()
		widths := make([]int, t.ColumnCount)
		for _, row := range grid {
			for c, cell := range row {
				widths[c] = max(widths[c], len([]rune(cell)))
			}
		}
		for _, row := range grid {
			for c, cell := range row {
				if c > 0 {
					b.WriteString("  ")
				}
				b.WriteString(cell)
				if c < len(row)-1 {
					b.WriteString(strings.Repeat(" ", widths[c]-len([]rune(cell))))
				}
			}
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
