package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/safedocs/backend/internal/application/safe"
)

// SignatureSender runs the e-signature workflow
type SignatureSender interface {
	Send(ctx context.Context, req safe.SignatureRequest, idempotencyKey string) (*safe.SignatureResponse, error)
}

// SignatureHandler handles the signature endpoint
type SignatureHandler struct {
	BaseHandler
	sender SignatureSender
}

// NewSignatureHandler creates a new SignatureHandler
func NewSignatureHandler(sender SignatureSender) *SignatureHandler {
	return &SignatureHandler{sender: sender}
}

// Ampersand godoc
// @ID           sendForSignature
// @Summary      Send the SAFE for signature
// @Description  Creates a template, attaches the document, creates an envelope and sends it, in that order.
// @Description  Signers default to the founder and the investor. A failed step stops the workflow and is not retried.
// @Tags         signatures
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays of the same key are rejected"
// @Param        request body safe.SignatureRequest false "Document source and signers"
// @Success      200 {object} APIResponse[safe.SignatureResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /ampersand [post]
func (h *SignatureHandler) Ampersand(c *gin.Context) {
	var req safe.SignatureRequest
	// an empty body is a valid request that relies on the configured defaults
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.sender.Send(c.Request.Context(), req, idempotencyKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
