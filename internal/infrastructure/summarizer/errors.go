package summarizer

import "errors"

// Error codes for summarizer failures
const (
	ErrCodeTimeout        = "TIMEOUT"
	ErrCodeProviderFailed = "PROVIDER_FAILED"
	ErrCodeEmptyResponse  = "EMPTY_RESPONSE"
	ErrCodeDisabled       = "DISABLED"
)

// SummarizeError describes why no summary was produced
type SummarizeError struct {
	Code     string
	Provider string
	Message  string
	Cause    error
}

func (e *SummarizeError) Error() string {
	msg := e.Message
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *SummarizeError) Unwrap() error {
	return e.Cause
}

// Is matches on code
func (e *SummarizeError) Is(target error) bool {
	t, ok := target.(*SummarizeError)
	return ok && t.Code == e.Code
}

func newSummarizeError(code, provider, message string, cause error) *SummarizeError {
	return &SummarizeError{Code: code, Provider: provider, Message: message, Cause: cause}
}

var (
	// ErrSummarizerDisabled is returned when no provider is configured
	ErrSummarizerDisabled = &SummarizeError{Code: ErrCodeDisabled, Message: "summarizer is disabled"}
	// ErrTimeout matches summaries aborted by the call bound
	ErrTimeout = &SummarizeError{Code: ErrCodeTimeout}
	// ErrProviderFailed matches provider-side failures
	ErrProviderFailed = &SummarizeError{Code: ErrCodeProviderFailed}
	// ErrEmptyResponse matches replies without text
	ErrEmptyResponse = &SummarizeError{Code: ErrCodeEmptyResponse}
)

// IsSummarizeError reports whether err is any summarizer failure
func IsSummarizeError(err error) bool {
	var se *SummarizeError
	return errors.As(err, &se)
}
