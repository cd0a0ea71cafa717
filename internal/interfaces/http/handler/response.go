package handler

import "github.com/safedocs/backend/internal/interfaces/http/dto"

// Envelope shapes referenced by the swag annotations. Handlers write dto.Response;
// these only give the generated OpenAPI document typed payloads.

// APIResponse is a successful JSON envelope carrying T
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse is the envelope every failed JSON request receives.
// error.details.step names the failed signature step on SIGNATURE_FAILED.
type ErrorResponse struct {
	Success bool          `json:"success" example:"false"`
	Error   dto.ErrorInfo `json:"error"`
}
