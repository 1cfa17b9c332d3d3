package errors

import (
	"errors"
	"fmt"
)

// PDFError describes a failure while reading a document or assembling its tables.
type PDFError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Context    string    `json:"context,omitempty"`
	FilePath   string    `json:"file_path,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	Err        error     `json:"-"`
}

// ErrorType represents the categories of extraction errors
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInput
	ErrorTypeInvalidPassword
	ErrorTypeConfiguration
	ErrorTypeLayoutAnomaly
	ErrorTypeMalformedPage
)

// Error implements the error interface
func (e *PDFError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause
func (e *PDFError) Unwrap() error {
	return e.Err
}

// Is matches any PDFError of the same type, so sentinel comparisons work with errors.Is.
func (e *PDFError) Is(target error) bool {
	var t *PDFError
	if !errors.As(target, &t) {
		return false
	}
	return t == e || (t.Type == e.Type && t.Message == "")
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeInput:
		return "INPUT"
	case ErrorTypeInvalidPassword:
		return "INVALID_PASSWORD"
	case ErrorTypeConfiguration:
		return "CONFIGURATION"
	case ErrorTypeLayoutAnomaly:
		return "LAYOUT_ANOMALY"
	case ErrorTypeMalformedPage:
		return "MALFORMED_PAGE"
	default:
		return "UNKNOWN"
	}
}

// IsRecoverable reports whether extraction may continue after an error of this type.
// Input and configuration errors abort the whole call.
func (et ErrorType) IsRecoverable() bool {
	switch et {
	case ErrorTypeLayoutAnomaly, ErrorTypeMalformedPage:
		return true
	default:
		return false
	}
}

// Sentinels for errors.Is comparisons; only the type is compared.
var (
	ErrInput           = &PDFError{Type: ErrorTypeInput}
	ErrInvalidPassword = &PDFError{Type: ErrorTypeInvalidPassword}
	ErrConfiguration   = &PDFError{Type: ErrorTypeConfiguration}
	ErrLayoutAnomaly   = &PDFError{Type: ErrorTypeLayoutAnomaly}
)

// NewPDFError creates a new PDFError
func NewPDFError(errorType ErrorType, message string) *PDFError {
	return &PDFError{
		Type:    errorType,
		Message: message,
	}
}

// NewPDFErrorWithContext creates a new PDFError with additional context
func NewPDFErrorWithContext(errorType ErrorType, message, context string) *PDFError {
	return &PDFError{
		Type:    errorType,
		Message: message,
		Context: context,
	}
}

// WrapError wraps a standard error as a PDFError
func WrapError(errorType ErrorType, message string, err error) *PDFError {
	return &PDFError{
		Type:    errorType,
		Message: message,
		Err:     err,
	}
}

// WithFile adds file path information to an existing PDFError
func (e *PDFError) WithFile(filePath string) *PDFError {
	e.FilePath = filePath
	return e
}

// WithPage adds page number information to an existing PDFError
func (e *PDFError) WithPage(pageNumber int) *PDFError {
	e.PageNumber = pageNumber
	return e
}

// Recoverable reports whether this specific error is recoverable
func (e *PDFError) Recoverable() bool {
	return e.Type.IsRecoverable()
}

// IsInputError reports whether err is, or wraps, an input error (including bad passwords).
func IsInputError(err error) bool {
	return errors.Is(err, ErrInput) || errors.Is(err, ErrInvalidPassword)
}

// IsConfigurationError reports whether err is, or wraps, a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// WithFile records filePath on the outermost PDFError in err's chain and
// returns err. Errors without a PDFError are returned unchanged.
func WithFile(err error, filePath string) error {
	var pe *PDFError
	if errors.As(err, &pe) {
		return pe.WithFile(filePath)
	}
	return err
}
