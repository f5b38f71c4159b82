package printing

import (
	"context"
	"time"
)

// PaperSize is a supported output paper format
type PaperSize string

const (
	PaperSizeA4        PaperSize = "A4"
	PaperSizeA5        PaperSize = "A5"
	PaperSizeReceipt80 PaperSize = "RECEIPT_80"
)

// Dimensions returns width and height in millimeters. Receipt paper has no
// fixed height and reports 0.
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperSizeA4:
		return 210, 297
	case PaperSizeA5:
		return 148, 210
	case PaperSizeReceipt80:
		return 80, 0
	default:
		return 0, 0
	}
}

// IsValid reports whether the paper size is supported
func (p PaperSize) IsValid() bool {
	w, _ := p.Dimensions()
	return w > 0
}

// IsReceipt reports whether the paper is a continuous roll
func (p PaperSize) IsReceipt() bool {
	return p == PaperSizeReceipt80
}

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	HTML      string
	Title     string
	PaperSize PaperSize
	MarginMM  float64
	Timeout   time.Duration // overrides the renderer default
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	RenderDuration time.Duration
}

// PDFRenderer renders HTML to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
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

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}
