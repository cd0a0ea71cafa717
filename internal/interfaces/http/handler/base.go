package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/domain/shared"
	"github.com/safedocs/backend/internal/infrastructure/document"
	"github.com/safedocs/backend/internal/infrastructure/email"
	"github.com/safedocs/backend/internal/infrastructure/esign"
	"github.com/safedocs/backend/internal/infrastructure/logger"
	"github.com/safedocs/backend/internal/infrastructure/printing"
	"github.com/safedocs/backend/internal/infrastructure/summarizer"
	"github.com/safedocs/backend/internal/interfaces/http/dto"
	"github.com/safedocs/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

// getUserID returns the authenticated user. Routes under /api/v1 always carry one.
func getUserID(c *gin.Context) (uuid.UUID, bool) {
	return middleware.GetUserUUID(c)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindJSON binds and validates the request body, answering 400/413 itself on failure
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// BindQuery binds and validates query parameters
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// PathID parses the :id path parameter
func (h *BaseHandler) PathID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid id")
		return uuid.Nil, false
	}
	id, _ := uuid.Parse(req.ID)
	return id, true
}

// HandleError maps pipeline and domain errors onto the response envelope.
// Only the human-readable message reaches the client; provider payloads and
// causes are logged.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	status, info := describeError(err)
	info.RequestID = getRequestID(c)

	log := logger.L(c.Request.Context()).With(
		zap.String("error_code", info.Code),
		zap.Int("status", status),
	)
	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request failed", append(providerFields(err), zap.Error(err))...)
	default:
		log.Info("request rejected", zap.Error(err))
	}

	c.JSON(status, dto.Response{Success: false, Error: info})
}

// describeError resolves the status and public error body for err
func describeError(err error) (int, *dto.ErrorInfo) {
	var (
		formatErr    *investment.FormatError
		renderErr    *document.RenderError
		pdfErr       *printing.RenderError
		summaryErr   *summarizer.SummarizeError
		workflowErr  *esign.SignatureWorkflowError
		deliveryErr  *email.DeliveryError
		domainErr    *shared.DomainError
		tooLargeErr  *http.MaxBytesError
		errorDetails any
	)

	switch {
	// PDF errors wrap the docx parse failure, so they are matched first
	case errors.As(err, &pdfErr):
		if pdfErr.Code == printing.ErrCodeInvalidDocument {
			return withDetails(dto.ErrCodeInvalidDocument, pdfErr.Message, nil)
		}
		return withDetails(dto.ErrCodePDFFailed, "PDF conversion failed", nil)

	case errors.As(err, &formatErr):
		if formatErr.Field != "" {
			errorDetails = map[string]string{"field": formatErr.Field}
		}
		return withDetails(formatErr.Code, formatErr.Message, errorDetails)

	case errors.As(err, &renderErr):
		if len(renderErr.Fields) > 0 {
			errorDetails = map[string][]string{"fields": renderErr.Fields}
		}
		message := renderErr.Message
		if renderErr.Code == document.ErrCodePackagingFailed {
			message = "The document could not be assembled"
		}
		return withDetails(renderErr.Code, message, errorDetails)

	case errors.As(err, &summaryErr):
		if summaryErr.Code == summarizer.ErrCodeDisabled {
			return withDetails(dto.ErrCodeServiceUnavailable, "Summaries are not configured", nil)
		}
		return withDetails(dto.ErrCodeSummaryFailed, "The summary could not be generated. Please try again later.", nil)

	case errors.As(err, &workflowErr):
		return withDetails(dto.ErrCodeSignatureFailed,
			"The signature request failed at "+string(workflowErr.Step),
			map[string]string{"step": string(workflowErr.Step)})

	case errors.Is(err, esign.ErrNoDocument), errors.Is(err, esign.ErrNoSigners), errors.Is(err, esign.ErrInvalidSigner):
		return withDetails(dto.ErrCodeInvalidInput, err.Error(), nil)

	case errors.As(err, &deliveryErr):
		return withDetails(dto.ErrCodeEmailDeliveryFailed, "The email could not be delivered", nil)

	case errors.Is(err, email.ErrNoRecipients), errors.Is(err, email.ErrInvalidRecipient):
		return withDetails(dto.ErrCodeMissingRecipient, err.Error(), nil)

	case errors.Is(err, email.ErrNoSubject):
		return withDetails(dto.ErrCodeInvalidInput, err.Error(), nil)

	case errors.As(err, &tooLargeErr):
		return withDetails(dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size", nil)

	case errors.As(err, &domainErr):
		return withDetails(domainErr.Code, domainErr.Message, nil)
	}

	return withDetails(dto.ErrCodeInternal, "An unexpected error occurred", nil)
}

func withDetails(code, message string, details any) (int, *dto.ErrorInfo) {
	return dto.GetHTTPStatus(code), &dto.ErrorInfo{Code: code, Message: message, Details: details}
}

// providerFields extracts the raw upstream response for logs
func providerFields(err error) []zap.Field {
	var (
		workflowErr *esign.SignatureWorkflowError
		deliveryErr *email.DeliveryError
		summaryErr  *summarizer.SummarizeError
	)
	switch {
	case errors.As(err, &workflowErr):
		return []zap.Field{
			zap.String("esign_step", string(workflowErr.Step)),
			zap.Int("provider_status", workflowErr.StatusCode),
			zap.String("provider_body", workflowErr.Body),
		}
	case errors.As(err, &deliveryErr):
		return []zap.Field{
			zap.Int("provider_status", deliveryErr.StatusCode),
			zap.String("provider_body", deliveryErr.Payload),
		}
	case errors.As(err, &summaryErr):
		return []zap.Field{zap.String("provider", summaryErr.Provider)}
	}
	return nil
}
