package descriptions

import "sort"

// Tool descriptions shown to MCP clients, with examples and use cases

const (
	PDFExtractTablesDescription = `Recover tables from text-based PDF pages by clustering glyph positions into row and column bands.

**When to use:** A PDF holds tabular data (invoices, statements, reports) and you need the cells, not just the text.

**How it works:** Every glyph's vertical extent is merged into row bands per page; the horizontal extents of all kept glyphs, across all selected pages, are merged into shared column bands. Each row then gets one cell per column band.

**Parameters:**
• pages: zero-based page indices to extract, e.g. "0,2". Empty means all pages.
• except_pages: zero-based pages to skip, e.g. "1".
• except_lines: row indices to drop before columns are computed. Negative values count from the last row; "line@page" limits an index to one page. Example: "0,-1,4@8" drops the first and last row of every page and row 4 of page 8.
• format: html (default), json, yaml, csv, markdown or text.

**Examples:**
• Invoice lines without header and footer: except_lines "0,-1"
• Only the second page of a statement: pages "1"

**Best practices:** Drop headers, footers and totals with except_lines so they do not merge column bands. Run pdf_layout_text first to see which rows a page has.`

	PDFLayoutTextDescription = `Render PDF pages as fixed-width text that keeps each glyph near its horizontal position.

**When to use:** You need to see how text is laid out on a page: aligned columns, indentation, blank lines between blocks.

**How it works:** Glyphs are ordered into reading order and written into lines of character cells, one cell per 4 units of page width. Line breaks and blank lines follow the vertical distance between baselines.

**Parameters:**
• pages: zero-based page indices, e.g. "0,1". Empty means all pages.

**Best practices:** Use it to choose except_lines for pdf_extract_tables, or to read forms and reports whose meaning depends on alignment.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before extracting from a file you have not seen, especially user uploads or files in automated workflows.

**Why it's useful:** Reports page count, PDF version and encryption, and catches corrupted or non-PDF files early.

**Best practices:** Encrypted files need the password parameter on the extraction tools.`

	PDFSearchDirectoryDescription = `Find PDF files in the configured directory.

**When to use:** You need the path of a document before extracting from it, or want to see which documents are available.

**Parameters:**
• directory: directory to search, relative to the configured one. Empty means the configured directory.
• query: case-insensitive substring the file name must contain.

**Best practices:** Pass the returned path unchanged to the extraction tools.`

	PDFServerInfoDescription = `Describe the server: name, version, configured directory, file size limit, available tools and the PDF files it can see.

**When to use:** At the start of a session, to learn where documents live and which tools to call.

**Best practices:** The directory listing is cached for a few minutes; use pdf_search_directory for a fresh or filtered listing.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"pdf_extract_tables":   PDFExtractTablesDescription,
	"pdf_layout_text":      PDFLayoutTextDescription,
	"pdf_validate_file":    PDFValidateFileDescription,
	"pdf_search_directory": PDFSearchDirectoryDescription,
	"pdf_server_info":      PDFServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the described tool names in sorted order.
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
