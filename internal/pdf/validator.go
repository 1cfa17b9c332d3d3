package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/a3tai/traprange/internal/pdf/wrapper"
)

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
	factory     *wrapper.Factory
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64, factory *wrapper.Factory) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
		factory:     factory,
	}
}

// ValidateFile checks the file and its PDF structure. Problems with the
// document are reported in the result, not as an error.
func (v *Validator) ValidateFile(req PDFValidateFileRequest) *PDFValidateFileResult {
	result := &PDFValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	if err := v.checkFile(req.Path); err != nil {
		result.Message = err.Error()
		return result
	}

	f, err := os.Open(req.Path)
	if err != nil {
		result.Message = fmt.Sprintf("cannot open file: %v", err)
		return result
	}
	defer f.Close()

	info, err := v.factory.Inspect(f, req.Password)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	doc, err := v.factory.OpenFile(req.Path, req.Password)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	defer doc.Close()

	result.Valid = true
	result.PageCount = info.PageCount
	result.Version = info.Version
	result.Encrypted = info.Encrypted
	return result
}

// checkFile performs the checks that need no parsing.
func (v *Validator) checkFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	return v.ValidateFileInfo(filePath, fileInfo)
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}
