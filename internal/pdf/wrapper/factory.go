package wrapper

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/a3tai/traprange/internal/pdf/errors"
)

// DefaultMaxFileSize bounds the documents a Factory reads into memory.
const DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

// Factory opens PDF documents as glyph sources.
type Factory struct {
	// MaxFileSize limits the size of a document in bytes; zero means no limit.
	MaxFileSize int64
	logger      zerolog.Logger
}

// NewFactory creates a factory reading documents of at most maxFileSize bytes.
func NewFactory(maxFileSize int64, logger zerolog.Logger) *Factory {
	return &Factory{MaxFileSize: maxFileSize, logger: logger}
}

// OpenFile opens the document at path. password may be empty.
func (f *Factory) OpenFile(path, password string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeInput, "failed to open file",
			&WrapperError{Library: LibraryLedongthuc, Op: "open_file", Err: err}).WithFile(path)
	}
	defer file.Close()

	doc, err := f.Open(file, password)
	if err != nil {
		return nil, errors.WithFile(err, path)
	}
	return doc, nil
}

// Open reads a document from r. password may be empty.
// Encrypted documents are decrypted in memory; a missing or wrong password
// yields an error of type errors.ErrorTypeInvalidPassword.
func (f *Factory) Open(r io.Reader, password string) (*Document, error) {
	data, err := f.readAll(r)
	if err != nil {
		return nil, err
	}
	return f.open(data, password)
}

// Inspect validates the document structure in r with pdfcpu.
func (f *Factory) Inspect(r io.Reader, password string) (Info, error) {
	data, err := f.readAll(r)
	if err != nil {
		return Info{}, err
	}
	info, err := inspectPDFCPU(data, password)
	if err != nil {
		return Info{}, errors.WrapError(errors.ErrorTypeInput, "invalid PDF structure", err)
	}
	return info, nil
}

func (f *Factory) readAll(r io.Reader) ([]byte, error) {
	if f.MaxFileSize > 0 {
		r = io.LimitReader(r, f.MaxFileSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeInput, "failed to read document", err)
	}
	if f.MaxFileSize > 0 && int64(len(data)) > f.MaxFileSize {
		return nil, errors.WrapError(errors.ErrorTypeInput,
			fmt.Sprintf("document larger than %d bytes", f.MaxFileSize), ErrFileTooLarge)
	}
	return data, nil
}

func (f *Factory) open(data []byte, password string) (*Document, error) {
	r, err := openLedongthuc(data, password)
	if err == nil {
		return &Document{reader: r}, nil
	}
	if !encrypted(err) {
		return nil, errors.WrapError(errors.ErrorTypeInput, "failed to open PDF", err)
	}

	f.logger.Debug().Err(err).Msg("decrypting document with pdfcpu")
	plain, derr := decryptPDFCPU(data, password)
	if derr != nil {
		if password == "" {
			return nil, errors.WrapError(errors.ErrorTypeInvalidPassword, "document is encrypted",
				fmt.Errorf("%w: %v", ErrPasswordRequired, derr))
		}
		return nil, errors.WrapError(errors.ErrorTypeInvalidPassword, "failed to decrypt document", derr)
	}

	r, err = openLedongthuc(plain, "")
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeInput, "failed to open decrypted PDF", err)
	}
	return &Document{reader: r, decrypted: true}, nil
}

// encrypted reports whether ledongthuc failed because of document encryption
// it could not undo.
func encrypted(err error) bool {
	return stderrors.Is(err, pdf.ErrInvalidPassword) || strings.Contains(err.Error(), "encryption")
}
