package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/safedocs/backend/internal/application/safe"
	"github.com/safedocs/backend/internal/interfaces/http/middleware"
)

// Notifier sends deal documents by email
type Notifier interface {
	SendFounderEmail(ctx context.Context, req safe.SendEmailRequest, idempotencyKey string) (*safe.EmailResponse, error)
	SendCounterpartyEmail(ctx context.Context, req safe.SendInvestmentEmailRequest, idempotencyKey string) (*safe.EmailResponse, error)
}

// NotificationHandler handles the email endpoints
type NotificationHandler struct {
	BaseHandler
	notifier Notifier
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifier Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// SendEmail godoc
// @ID           sendFounderEmail
// @Summary      Email the SAFE to the founder
// @Description  Renders the document and mails it with a deal summary attached as {CompanyName}-SAFE.docx.
// @Description  When content is empty a summary is generated if a provider is configured.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays of the same key are rejected"
// @Param        request body safe.SendEmailRequest true "Deal terms and optional summary"
// @Success      200 {object} APIResponse[safe.EmailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /send-email [post]
func (h *NotificationHandler) SendEmail(c *gin.Context) {
	var req safe.SendEmailRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.notifier.SendFounderEmail(c.Request.Context(), req, idempotencyKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SendInvestmentEmail godoc
// @ID           sendInvestmentEmail
// @Summary      Email the SAFE to both parties
// @Description  Mails the supplied or freshly rendered document to the founder and the investor
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays of the same key are rejected"
// @Param        request body safe.SendInvestmentEmailRequest true "Deal terms, body and optional base64 attachment"
// @Success      200 {object} APIResponse[safe.EmailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /send-investment-email [post]
func (h *NotificationHandler) SendInvestmentEmail(c *gin.Context) {
	var req safe.SendInvestmentEmailRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.notifier.SendCounterpartyEmail(c.Request.Context(), req, idempotencyKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func idempotencyKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(middleware.IdempotencyKeyHeader))
}
