// Package printing converts documents to PDF through a headless browser.
package printing

import (
	"bytes"
	"context"
	"time"
)

// PaperSize is a named page size
type PaperSize string

const (
	PaperSizeLetter PaperSize = "LETTER"
	PaperSizeA4     PaperSize = "A4"
)

// IsValid reports whether p is a supported paper size
func (p PaperSize) IsValid() bool {
	return p == PaperSizeLetter || p == PaperSizeA4
}

// Dimensions returns width and height in millimeters
func (p PaperSize) Dimensions() (float64, float64) {
	if p == PaperSizeA4 {
		return 210, 297
	}
	return 215.9, 279.4
}

// Margins in millimeters
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// DefaultMargins is one inch on every side
func DefaultMargins() Margins {
	return Margins{Top: 25.4, Right: 25.4, Bottom: 25.4, Left: 25.4}
}

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	// HTML content to render
	HTML string
	// Title for the PDF document metadata
	Title string
	// PaperSize defines the output paper dimensions; defaults to letter
	PaperSize PaperSize
	// Margins in millimeters; zero value means DefaultMargins
	Margins Margins
	// FooterHTML is rendered on every page (optional)
	FooterHTML string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// PageCount is the number of pages in the PDF
	PageCount int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer defines the interface for rendering HTML to PDF
type PDFRenderer interface {
	// Render converts HTML content to a PDF document
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for conversion failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidDocument  = "INVALID_DOCUMENT"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// estimatePageCount counts page objects in a PDF
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	// "/Type /Pages" also matches the prefix above
	count -= bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(count, 1)
}
