package dto

import "net/http"

// Error codes returned in ErrorInfo.Code. Domain and adapter failures keep
// their own codes; these cover the transport layer and the mapping targets.

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeServiceUnavailable is used when a dependency is not configured
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	// ErrCodeUpstream is used when a third-party provider fails
	ErrCodeUpstream = "UPSTREAM_ERROR"
)

// Request error codes
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeInvalidDocument = "INVALID_DOCUMENT"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeMissingRecipient is used when no recipient address was supplied
	ErrCodeMissingRecipient = "MISSING_RECIPIENT"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "INVALID_TOKEN"
)

// Resource error codes
const (
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeAlreadyExists        = "ALREADY_EXISTS"
	ErrCodeDuplicateRequest     = "DUPLICATE_REQUEST"
	ErrCodeDocumentNotGenerated = "DOCUMENT_NOT_GENERATED"
	ErrCodeTemplateNotFound     = "TEMPLATE_NOT_FOUND"
	ErrCodeInvalidState         = "INVALID_STATE"
)

// Document pipeline error codes
const (
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeInvalidDiscount      = "INVALID_DISCOUNT"
	ErrCodeInvalidDate          = "INVALID_DATE"
	ErrCodeInconsistentVariant  = "INCONSISTENT_VARIANT"
	ErrCodeUnknownVariant       = "UNKNOWN_VARIANT"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodePackagingFailed      = "PACKAGING_FAILED"
	ErrCodeSummaryFailed        = "SUMMARY_FAILED"
	ErrCodeSignatureFailed      = "SIGNATURE_WORKFLOW_FAILED"
	ErrCodeEmailDeliveryFailed  = "EMAIL_DELIVERY_FAILED"
	ErrCodePDFUnavailable       = "PDF_UNAVAILABLE"
	ErrCodePDFFailed            = "PDF_CONVERSION_FAILED"
	ErrCodeStorageUnavailable   = "STORAGE_UNAVAILABLE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeUpstream:           http.StatusBadGateway,

	// Request errors -> 400 Bad Request
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeInvalidDocument:  http.StatusBadRequest,
	ErrCodeMissingRecipient: http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeAlreadyExists:        http.StatusConflict,
	ErrCodeDuplicateRequest:     http.StatusConflict,
	ErrCodeDocumentNotGenerated: http.StatusNotFound,
	ErrCodeTemplateNotFound:     http.StatusNotFound,
	ErrCodeInvalidState:         http.StatusConflict,

	// Term formatting -> 400, rendering gaps -> 422
	ErrCodeInvalidAmount:        http.StatusBadRequest,
	ErrCodeInvalidDiscount:      http.StatusBadRequest,
	ErrCodeInvalidDate:          http.StatusBadRequest,
	ErrCodeInconsistentVariant:  http.StatusBadRequest,
	ErrCodeUnknownVariant:       http.StatusBadRequest,
	ErrCodeMissingRequiredField: http.StatusUnprocessableEntity,
	ErrCodePackagingFailed:      http.StatusInternalServerError,

	// Third-party providers -> 502 Bad Gateway
	ErrCodeSummaryFailed:       http.StatusBadGateway,
	ErrCodeSignatureFailed:     http.StatusBadGateway,
	ErrCodeEmailDeliveryFailed: http.StatusBadGateway,
	ErrCodePDFFailed:           http.StatusBadGateway,

	// Unconfigured dependencies -> 503
	ErrCodePDFUnavailable:     http.StatusServiceUnavailable,
	ErrCodeStorageUnavailable: http.StatusServiceUnavailable,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
