package document

import (
	"errors"
	"strings"
)

// Error codes for rendering failures
const (
	ErrCodeTemplateNotFound     = "TEMPLATE_NOT_FOUND"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodePackagingFailed      = "PACKAGING_FAILED"
)

// RenderError represents an error while producing a document
type RenderError struct {
	Code    string
	Message string
	Fields  []string // Set for MISSING_REQUIRED_FIELD
	Cause   error
}

func (e *RenderError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg += " (" + strings.Join(e.Fields, ", ") + ")"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Is matches render errors by code
func (e *RenderError) Is(target error) bool {
	t, ok := target.(*RenderError)
	return ok && t.Code == e.Code
}

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels for errors.Is checks
var (
	ErrTemplateNotFound     = &RenderError{Code: ErrCodeTemplateNotFound}
	ErrMissingRequiredField = &RenderError{Code: ErrCodeMissingRequiredField}
	ErrPackagingFailed      = &RenderError{Code: ErrCodePackagingFailed}
)

// IsRenderError reports whether err is a RenderError carrying code
func IsRenderError(err error, code string) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Code == code
}
