package pdf

import (
	"time"

	"github.com/a3tai/traprange/internal/pdf/layout"
	"github.com/a3tai/traprange/internal/pdf/table"
)

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// PDFExtractTablesRequest asks for the tables of a document. Page and line
// selections use the comma-separated syntax of config.ExtractionFlags.
type PDFExtractTablesRequest struct {
	Path        string `json:"path"`
	Password    string `json:"password,omitempty"`
	Pages       string `json:"pages,omitempty"`
	ExceptPages string `json:"except_pages,omitempty"`
	ExceptLines string `json:"except_lines,omitempty"`
}

// PDFLayoutTextRequest asks for the layout-preserving text of a document.
type PDFLayoutTextRequest struct {
	Path     string `json:"path"`
	Password string `json:"password,omitempty"`
	Pages    string `json:"pages,omitempty"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path     string `json:"path"`
	Password string `json:"password,omitempty"`
}

// PDFSearchDirectoryRequest represents a request to search for PDF files in a directory
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// Response Types

// PDFExtractTablesResult holds one table per eligible page that had content.
type PDFExtractTablesResult struct {
	Path      string        `json:"path"`
	RunID     string        `json:"run_id"`
	PageCount int           `json:"page_count"`
	Tables    []table.Table `json:"tables"`
}

// PDFLayoutTextResult holds the reconstructed lines of each selected page.
type PDFLayoutTextResult struct {
	Path      string            `json:"path"`
	RunID     string            `json:"run_id"`
	PageCount int               `json:"page_count"`
	Pages     []layout.PageText `json:"pages"`
}

// PDFValidateFileResult represents the result of PDF validation
type PDFValidateFileResult struct {
	Path      string `json:"path"`
	Valid     bool   `json:"valid"`
	Message   string `json:"message,omitempty"`
	PageCount int    `json:"page_count,omitempty"`
	Version   string `json:"version,omitempty"`
	Encrypted bool   `json:"encrypted,omitempty"`
}

// PDFSearchDirectoryResult represents the result of a directory search
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// ToolInfo names an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PDFServerInfoResult represents server information and usage guidance
type PDFServerInfoResult struct {
	ServerName        string        `json:"server_name"`
	Version           string        `json:"version"`
	DefaultDirectory  string        `json:"default_directory"`
	MaxFileSize       int64         `json:"max_file_size"`
	AvailableTools    []ToolInfo    `json:"available_tools"`
	DirectoryContents []FileInfo    `json:"directory_contents"`
	Truncated         bool          `json:"truncated,omitempty"`
	FromCache         bool          `json:"from_cache"`
	CacheAge          time.Duration `json:"cache_age"`
	UsageGuidance     string        `json:"usage_guidance"`
}
