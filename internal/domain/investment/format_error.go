package investment

import "fmt"

// Format error codes
const (
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeInvalidDiscount     = "INVALID_DISCOUNT"
	ErrCodeInvalidDate         = "INVALID_DATE"
	ErrCodeInconsistentVariant = "INCONSISTENT_VARIANT"
	ErrCodeUnknownVariant      = "UNKNOWN_VARIANT"
)

// FormatError reports raw terms that cannot be normalized for a template.
// It is recoverable: the form shows it next to Field.
type FormatError struct {
	Code    string
	Field   string
	Message string
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Is matches on Code so callers can test against the sentinel values below
func (e *FormatError) Is(target error) bool {
	t, ok := target.(*FormatError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Field == "" || t.Field == e.Field)
}

func newFormatError(code, field, message string) *FormatError {
	return &FormatError{Code: code, Field: field, Message: message}
}

// Sentinels for errors.Is checks
var (
	ErrInvalidAmount       = &FormatError{Code: ErrCodeInvalidAmount}
	ErrInvalidDiscount     = &FormatError{Code: ErrCodeInvalidDiscount}
	ErrInvalidDate         = &FormatError{Code: ErrCodeInvalidDate}
	ErrInconsistentVariant = &FormatError{Code: ErrCodeInconsistentVariant}
	ErrUnknownVariant      = &FormatError{Code: ErrCodeUnknownVariant}
)
