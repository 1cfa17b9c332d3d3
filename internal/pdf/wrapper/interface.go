// Package wrapper adapts third-party PDF libraries into a glyph.Source.
//
// ledongthuc/pdf walks page content streams and reports every shown glyph
// with its position; pdfcpu decrypts documents that ledongthuc cannot open.
package wrapper

import (
	"fmt"
)

// LibraryType names the underlying PDF library an operation ran on.
type LibraryType string

const (
	LibraryPDFCPU     LibraryType = "pdfcpu"
	LibraryLedongthuc LibraryType = "ledongthuc"
)

// Rectangle is a page box in PDF user space.
type Rectangle struct {
	LLX float64 `json:"llx"`
	LLY float64 `json:"lly"`
	URX float64 `json:"urx"`
	URY float64 `json:"ury"`
}

// Width returns the horizontal size of the box.
func (r Rectangle) Width() float64 {
	return r.URX - r.LLX
}

// Height returns the vertical size of the box.
func (r Rectangle) Height() float64 {
	return r.URY - r.LLY
}

// LetterBox is used when a page declares no usable MediaBox.
var LetterBox = Rectangle{URX: 612, URY: 792}

// WrapperError records the library and operation that failed.
type WrapperError struct {
	Library LibraryType `json:"library"`
	Op      string      `json:"operation"`
	Err     error       `json:"error"`
}

func (e *WrapperError) Error() string {
	return fmt.Sprintf("PDF %s library error in %s: %v", e.Library, e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}

// Common error variables
var (
	ErrDocumentClosed   = fmt.Errorf("document is closed")
	ErrInvalidPage      = fmt.Errorf("invalid page number")
	ErrPasswordRequired = fmt.Errorf("password required")
	ErrFileTooLarge     = fmt.Errorf("file exceeds maximum size")
)
