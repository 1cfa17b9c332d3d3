// Package pdf is the service facade shared by the CLI and the MCP server:
// it confines paths, opens documents and runs table extraction and layout
// reconstruction on them.
package pdf

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/a3tai/traprange/internal/config"
	"github.com/a3tai/traprange/internal/pdf/errors"
	"github.com/a3tai/traprange/internal/pdf/layout"
	"github.com/a3tai/traprange/internal/pdf/security"
	"github.com/a3tai/traprange/internal/pdf/table"
	"github.com/a3tai/traprange/internal/pdf/wrapper"
)

// searchLimit caps the files returned by one directory search.
const searchLimit = 500

// Service handles PDF file operations by orchestrating the PDF components
type Service struct {
	maxFileSize   int64
	factory       *wrapper.Factory
	validator     *Validator
	search        *Search
	info          *ServerInfo
	pathValidator *security.PathValidator
	logger        zerolog.Logger
}

// NewService creates a PDF service confined to configuredDirectory.
func NewService(maxFileSize int64, configuredDirectory string, logger zerolog.Logger) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeConfiguration, "failed to create path validator", err)
	}

	factory := wrapper.NewFactory(maxFileSize, logger)
	validator := NewValidator(maxFileSize, factory)

	s := &Service{
		maxFileSize:   maxFileSize,
		factory:       factory,
		validator:     validator,
		search:        NewSearch(validator, pathValidator, searchLimit),
		pathValidator: pathValidator,
		logger:        logger,
	}
	s.info = NewServerInfo(s)
	return s, nil
}

// ExtractTables recovers one table per eligible page of the document.
// Malformed selections are rejected before the document is opened.
func (s *Service) ExtractTables(req PDFExtractTablesRequest) (*PDFExtractTablesResult, error) {
	runID, log := s.run("extract_tables", req.Path)
	start := time.Now()

	opts, err := config.ExtractionFlags{
		Pages:       req.Pages,
		ExceptPages: req.ExceptPages,
		ExceptLines: req.ExceptLines,
	}.ToOptions()
	if err != nil {
		return nil, err
	}

	path, doc, err := s.open(req.Path, req.Password)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	tables, err := table.NewExtractor(opts, log).Extract(doc)
	if err != nil {
		return nil, errors.WithFile(err, path)
	}

	log.Info().
		Int("pages", doc.PageCount()).
		Int("tables", len(tables)).
		Dur("elapsed", time.Since(start)).
		Msg("extracted tables")

	return &PDFExtractTablesResult{
		Path:      path,
		RunID:     runID,
		PageCount: doc.PageCount(),
		Tables:    tables,
	}, nil
}

// LayoutText reconstructs the selected pages as fixed-width text.
func (s *Service) LayoutText(req PDFLayoutTextRequest) (*PDFLayoutTextResult, error) {
	runID, log := s.run("layout_text", req.Path)
	start := time.Now()

	pages, err := config.ExtractionFlags{Pages: req.Pages}.PageList()
	if err != nil {
		return nil, err
	}

	path, doc, err := s.open(req.Path, req.Password)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	text, err := layout.NewReconstructor(log).Document(doc, pages)
	if err != nil {
		return nil, errors.WithFile(err, path)
	}

	log.Info().
		Int("pages", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("reconstructed layout")

	return &PDFLayoutTextResult{
		Path:      path,
		RunID:     runID,
		PageCount: doc.PageCount(),
		Pages:     text,
	}, nil
}

// ValidateFile reports whether a file is a readable PDF.
func (s *Service) ValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	req.Path = path
	return s.validator.ValidateFile(req), nil
}

// SearchDirectory lists PDF files under a directory inside the configured one.
func (s *Service) SearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	if req.Directory != "" {
		dir, err := s.resolve(req.Directory)
		if err != nil {
			return nil, err
		}
		req.Directory = dir
	}
	result, err := s.search.SearchDirectory(req)
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeInput, "directory search failed", err)
	}
	return result, nil
}

// ServerInfo reports the server capabilities and the configured directory's
// PDF files.
func (s *Service) ServerInfo(serverName, version string) (*PDFServerInfoResult, error) {
	return s.info.GetServerInfo(serverName, version)
}

// MaxFileSize returns the maximum file size limit
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// Directory returns the directory the service is confined to.
func (s *Service) Directory() string {
	return s.pathValidator.Directory()
}

func (s *Service) run(op, path string) (string, zerolog.Logger) {
	id := uuid.NewString()
	return id, s.logger.With().Str("run_id", id).Str("op", op).Str("path", path).Logger()
}

func (s *Service) resolve(path string) (string, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", errors.WrapError(errors.ErrorTypeInput, "security validation failed", err).WithFile(path)
	}
	return resolved, nil
}

// open resolves and checks path, then opens the document. The caller
// closes the returned document.
func (s *Service) open(rawPath, password string) (string, *wrapper.Document, error) {
	path, err := s.resolve(rawPath)
	if err != nil {
		return "", nil, err
	}
	if err := s.validator.checkFile(path); err != nil {
		return "", nil, errors.WrapError(errors.ErrorTypeInput, "invalid file", err).WithFile(path)
	}
	doc, err := s.factory.OpenFile(path, password)
	if err != nil {
		return "", nil, err
	}
	return path, doc, nil
}
