package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a3tai/traprange/internal/pdf/security"
)

// Search finds PDF files below the configured directory.
type Search struct {
	validator     *Validator
	pathValidator *security.PathValidator
	limit         int
}

// NewSearch creates a search handler returning at most limit files; zero
// means no limit.
func NewSearch(validator *Validator, pathValidator *security.PathValidator, limit int) *Search {
	return &Search{validator: validator, pathValidator: pathValidator, limit: limit}
}

// SearchDirectory lists the PDF files under req.Directory whose name
// contains req.Query, case-insensitively. Files are sorted by path.
func (s *Search) SearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	directory := req.Directory
	if directory == "" {
		directory = s.pathValidator.Directory()
	}
	if err := s.pathValidator.ValidateDirectory(directory); err != nil {
		return nil, err
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}
	if _, err := os.Stat(absDirectory); err != nil {
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	pdfFiles := []FileInfo{}

	err = filepath.WalkDir(absDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped.
			return nil //nolint:nilerr
		}
		if !s.pathValidator.IsPathWithinDirectory(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if query != "" && !strings.Contains(strings.ToLower(d.Name()), query) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr
		}
		if s.validator.ValidateFileInfo(path, info) != nil {
			return nil
		}

		pdfFiles = append(pdfFiles, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		if s.limit > 0 && len(pdfFiles) >= s.limit {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(pdfFiles, func(i, j int) bool { return pdfFiles[i].Path < pdfFiles[j].Path })

	return &PDFSearchDirectoryResult{
		Files:       pdfFiles,
		TotalCount:  len(pdfFiles),
		Directory:   absDirectory,
		SearchQuery: req.Query,
	}, nil
}
